package models

import (
	"fmt"
	"strings"
)

// ValidationError lists the required inputs that were missing or malformed.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// Missing returns a ValidationError naming every key of fields whose value
// is blank, or nil when all are present. Keys are checked in order.
func Missing(message string, fields [][2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Message: message, Fields: missing}
}
