package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed promises.schema.json
var promisesSchema string

// Validator checks raw JSON documents against a compiled schema.
type Validator struct {
	source string

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

// New creates a validator for the given JSON schema source.
// The schema is compiled lazily on first use.
func New(source string) *Validator {
	return &Validator{source: source}
}

// Promises returns a validator for the persisted promise collection
func Promises() *Validator {
	return New(promisesSchema)
}

// Validate returns nil when data satisfies the schema
func (v *Validator) Validate(data []byte) error {
	v.once.Do(func() {
		v.compiled, v.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(v.source))
	})
	if v.err != nil {
		return fmt.Errorf("invalid schema definition: %w", v.err)
	}

	result, err := v.compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validation execution failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed:\n- %s", strings.Join(errs, "\n- "))
}
