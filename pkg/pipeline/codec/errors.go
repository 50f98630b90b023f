package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformed is the cause of every rejected import, use errors.Is to test for it.
var ErrMalformed = errors.New("malformed pipeline configuration")

// ErrConfigMustBeSet is returned when a nil configuration is exported.
var ErrConfigMustBeSet = errors.New("config must be set")

// ParseError reports a document that is not valid JSON or YAML.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return ErrMalformed.Error()
	}

	return fmt.Sprintf("%s: %s", ErrMalformed.Error(), e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// SchemaError reports a well-formed document whose shape or values do not match the contract.
type SchemaError struct {
	// Field is the path of the offending value, e.g. sources[0].config.port.
	Field string
	Msg   string
	// Details lists every violation found when the document was checked against its schema.
	Details []string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformed.Error(), e.Field, e.Msg)
	}

	return fmt.Sprintf("%s: %s", ErrMalformed.Error(), e.Msg)
}

func (e *SchemaError) Unwrap() error { return ErrMalformed }
