package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/keptword/internal/storage"
)

func TestFileBackendRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	b, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := b.Get("promises"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get before Set error = %v, want ErrNotFound", err)
	}

	if err := b.Set("promises", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Set("promises", []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "promises.json"))
	if err != nil {
		t.Fatalf("expected promises.json on disk: %v", err)
	}
	if string(raw) != `[{"id":"x"}]` {
		t.Errorf("file contents = %q", raw)
	}

	// No temp files left behind
	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Errorf("expected 1 file in data dir, found %d", len(files))
	}

	reopened, _ := New(dir)
	got, err := reopened.Get("promises")
	if err != nil || string(got) != `[{"id":"x"}]` {
		t.Errorf("reopened Get = %q, %v", got, err)
	}

	if err := b.Remove("promises"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := b.Remove("promises"); err != nil {
		t.Errorf("Remove of absent key returned %v", err)
	}
}

func TestFileBackendRejectsBadKeys(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b", "dot.key"} {
		if err := b.Set(key, []byte("1")); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
	}
}
