package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SchemaValidator checks JSON documents against schemas read from a file system
type SchemaValidator interface {
	// Precompile loads and compiles the named schemas so broken schemas are
	// reported up front instead of on first use.
	Precompile(schemaNames ...string) error
	ValidateBytes(data []byte, schemaName string) error
}

type schemaValidator struct {
	mu       sync.Mutex
	fsys     fs.FS
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
	printer  *message.Printer
}

// NewSchemaValidator creates a validator that loads schemas by path from fsys
func NewSchemaValidator(fsys fs.FS) SchemaValidator {
	return &schemaValidator{
		fsys:     fsys,
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
		printer:  message.NewPrinter(language.English),
	}
}

func (v *schemaValidator) Precompile(schemaNames ...string) error {
	var errs []error
	for _, name := range schemaNames {
		if _, err := v.schema(name); err != nil {
			errs = append(errs, fmt.Errorf(ErrMsgLoadSchema, name, err))
		}
	}
	return errors.Join(errs...)
}

func (v *schemaValidator) ValidateBytes(data []byte, schemaName string) error {
	schema, err := v.schema(schemaName)
	if err != nil {
		return fmt.Errorf(ErrMsgLoadSchema, schemaName, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgParseDocument, err)
	}

	err = schema.Validate(doc)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s:\n%s", ErrMsgSchemaValidation, strings.Join(v.describe(verr, nil), "\n"))
	}
	return err
}

// schema returns the compiled schema, compiling it on first use
func (v *schemaValidator) schema(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[name]; ok {
		return s, nil
	}

	raw, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseSchema, err)
	}
	if err := v.compiler.AddResource(name, doc); err != nil {
		return nil, err
	}
	s, err := v.compiler.Compile(name)
	if err != nil {
		return nil, err
	}
	v.schemas[name] = s
	return s, nil
}

// describe flattens a validation error tree into one line per leaf failure
func (v *schemaValidator) describe(err *jsonschema.ValidationError, out []string) []string {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			out = v.describe(cause, out)
		}
		return out
	}

	location := "/" + strings.Join(err.InstanceLocation, "/")
	keyword := strings.Join(err.ErrorKind.KeywordPath(), ".")
	return append(out, fmt.Sprintf("  - at %s: %s: %s", location, keyword, err.ErrorKind.LocalizedString(v.printer)))
}
