package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func initForTest(t *testing.T, cfg Config) {
	t.Helper()
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		Close()
		Logger = nil
	})
}

func readLog(t *testing.T, configDir string) string {
	t.Helper()
	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	return string(data)
}

func TestPath(t *testing.T) {
	want := filepath.Join("cfg", "logs", "keptword.log")
	if got := Path("cfg"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestMutationsReachLogFile(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	initForTest(t, Config{ConfigDir: dir, Backend: "sqlite", Stderr: &stderr})

	Op("create").Info("Promise added", "id", "abc")
	Slot("promises").Debug("Persisted slot", "bytes", 42)

	got := readLog(t, dir)
	for _, want := range []string{"Promise added", "op=create", "id=abc", "backend=sqlite"} {
		if !strings.Contains(got, want) {
			t.Errorf("log file missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Persisted slot") {
		t.Errorf("debug line written outside debug mode:\n%s", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr written outside debug mode: %q", stderr.String())
	}
}

func TestDebugMirrorsToStderr(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	initForTest(t, Config{Debug: true, ConfigDir: dir, Stderr: &stderr})

	Slot("hasOnboarded").Warn("Falling back to default value", "error", "malformed")

	for name, out := range map[string]string{"stderr": stderr.String(), "file": readLog(t, dir)} {
		if !strings.Contains(out, "slot=hasOnboarded") || !strings.Contains(out, "Falling back") {
			t.Errorf("%s missing slot line:\n%s", name, out)
		}
	}
}

func TestScopeWithDoesNotShareFields(t *testing.T) {
	base := Op("delete")
	a := base.With("id", "1")
	b := base.With("id", "2")

	if len(base.fields) != 2 {
		t.Errorf("base fields = %v, want op only", base.fields)
	}
	if a.fields[3] != "1" || b.fields[3] != "2" {
		t.Errorf("scopes share storage: %v %v", a.fields, b.fields)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// must not panic before Init
	Debug("debug")
	Info("info")
	Slot("promises").Warn("warn")
	Op("clear").Error("error")
}

func TestInitFailsWhenLogDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Init(Config{ConfigDir: blocker}); err == nil {
		Close()
		t.Error("Init() succeeded with a file in place of the config directory")
	}
}
