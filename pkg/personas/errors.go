package personas

import (
	"errors"
	"fmt"
)

var (
	ErrPersonaNotFound = errors.New("persona not found")
	ErrValidation      = errors.New("validation error")
)

// ValidationError reports an invalid persona definition.
type ValidationError struct {
	PersonaID string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ErrValidation.Error()
	}
	if e.PersonaID == "" {
		return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s for persona %q: %s %s", ErrValidation, e.PersonaID, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
