package generation

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey    = errors.New("missing API key")
	ErrGenerationFailed = errors.New("generation failed")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrEmptyHistory     = errors.New("history is empty")
)

// GenerationError reports a failed call to a provider. It matches
// ErrGenerationFailed and unwraps to the provider error.
type GenerationError struct {
	Provider Provider
	Err      error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ErrGenerationFailed.Error()
	}
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed, e.Provider, e.Err)
}

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

func (e *GenerationError) Unwrap() error { return e.Err }

func failed(provider Provider, err error) error {
	return &GenerationError{Provider: provider, Err: err}
}
