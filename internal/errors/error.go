package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInvocation is returned when a request arrives without a host header.
	ErrInvalidInvocation = errors.New("invalid invocation")
	// ErrConfig marks a host mapping configuration that cannot be loaded. A
	// process without a mapping table cannot serve any host.
	ErrConfig                = errors.New("host mapping configuration error")
	ErrNotFound              = errors.New("not found")
	ErrHostNotMapped         = errors.New("host not mapped")
	ErrObjectNotFound        = errors.New("object does not exist")
	ErrUnsupportedBackend    = errors.New("unsupported storage backend")
	ErrMissingRequiredFields = errors.New("missing required fields")
)

// InvalidInvocationSentinel is what invocation callers receive instead of an
// HTTP response when the request has no host header.
const InvalidInvocationSentinel = "Invalid invocation"

// ConfigError wraps err as a mapping configuration failure for source.
func ConfigError(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConfig, source, err)
}

func ConfigNotSetError(config string) error {
	return fmt.Errorf("the %s setting must be set", config)
}
