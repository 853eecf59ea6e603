package validation

import (
	"fmt"
	"strings"

	"svcs/internal/errors"
)

// FieldSeparator splits the fields of one history log line.
const FieldSeparator = "/"

type Validator interface {
	Validate() error
}

// LogField rejects values that would break the one-line, three-field layout
// of the history log.
func LogField(name, value string) error {
	if strings.Contains(value, FieldSeparator) {
		return errors.ValidationError(
			fmt.Sprintf("The %s must not contain '%s'.", name, FieldSeparator), value)
	}
	if strings.ContainsAny(value, "\r\n") {
		return errors.ValidationError(
			fmt.Sprintf("The %s must be a single line.", name), value)
	}
	return nil
}
