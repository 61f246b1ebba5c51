package generation

import "errors"

// Domain errors for the generation lifecycle.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrGenerationFailed = errors.New("generation failed")
	ErrEmptyPrompt      = errors.New("prompt is required")
)
