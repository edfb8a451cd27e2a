package marquee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalidConfiguration is matched by every validation failure
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Field names reported in ConfigError
const (
	FieldText      = "text"
	FieldDelay     = "delay"
	FieldDirection = "direction"
	FieldColumn    = "column"
	FieldRow       = "row"
	FieldLength    = "length"
	FieldFrames    = "frames"
)

// ConfigError reports one field that violated its constraint
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfiguration) hold
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// outOfRangeFormat renders aggregated constructor failures on one line
func outOfRangeFormat(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return "one or more supplied parameters were out of range: " + strings.Join(parts, "; ")
}

// InvalidFields lists the fields named by every ConfigError inside err, in report order
func InvalidFields(err error) []string {
	if err == nil {
		return nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		fields := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			fields = append(fields, InvalidFields(e)...)
		}
		return fields
	}

	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return []string{cerr.Field}
	}
	return nil
}
