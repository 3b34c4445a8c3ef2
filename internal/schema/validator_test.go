package schema

import (
	"strings"
	"testing"
)

func TestPromisesSchema(t *testing.T) {
	valid := `[{"id":"1","personName":"Alex","description":"return book","dateMade":"2023-12-01",
		"followUpDate":"2024-01-01","status":"Pending","remindMe":false,"createdAt":"2023-12-01T10:00:00.000Z"}]`

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid collection", valid, false},
		{"empty array", `[]`, false},
		{"not an array", `{"id":"1"}`, true},
		{"unknown status", strings.Replace(valid, `"Pending"`, `"Done"`, 1), true},
		{"missing id", strings.Replace(valid, `"id":"1",`, ``, 1), true},
		{"remindMe wrong type", strings.Replace(valid, `"remindMe":false`, `"remindMe":"no"`, 1), true},
		{"optional notes", strings.Replace(valid, `"remindMe":false`, `"remindMe":false,"notes":"call first"`, 1), false},
	}

	v := Promises()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidSchemaSource(t *testing.T) {
	v := New(`{"type": 12}`)
	if err := v.Validate([]byte(`[]`)); err == nil {
		t.Error("Validate() with a broken schema should fail")
	}
}
