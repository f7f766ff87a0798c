package harness

import (
	"errors"
	"fmt"

	"github.com/entrhq/senbot/pkg/environment"
)

// ErrConfiguration matches every *ConfigError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// Configuration failures, each wrapped in a *ConfigError by NewRegistry.
var (
	// ErrHubRequired is returned when grid mode is enabled without a hub address.
	ErrHubRequired = errors.New("hub required when grid mode enabled")

	// ErrTargetRequired is returned when the target descriptor is blank.
	ErrTargetRequired = environment.ErrTargetRequired

	// ErrMalformedEnvironment is returned when a descriptor segment does not
	// have exactly three parts.
	ErrMalformedEnvironment = environment.ErrMalformedEnvironment

	// ErrUnknownPlatform is returned for platform names outside the enumeration.
	ErrUnknownPlatform = environment.ErrUnknownPlatform

	// ErrInvalidImplicitWait is returned when a non-blank implicit wait is not
	// an integer.
	ErrInvalidImplicitWait = errors.New("implicit wait must be a whole number of seconds")

	// ErrInvalidWindow is returned when the window width or height is not positive.
	ErrInvalidWindow = errors.New("window width and height must be positive")

	// ErrInvalidTimeout is returned when the timeout is negative.
	ErrInvalidTimeout = errors.New("timeout must not be negative")
)

// Worker affinity and lookup failures.
var (
	// ErrNotAssociated is returned by Runtime.Session when the calling worker
	// has no environment bound.
	ErrNotAssociated = errors.New("no test environment associated with worker")

	// ErrSessionReleased is returned by Runtime.Session when the bound
	// environment's session has already been cleaned up.
	ErrSessionReleased = errors.New("driver session already released")

	// ErrNoWorker is returned by Associate when the context was not created
	// with NewWorkerContext or WithWorkerID.
	ErrNoWorker = errors.New("context carries no worker identity")

	// ErrNilEnvironment is returned by Associate for a nil environment.
	ErrNilEnvironment = errors.New("test environment is nil")

	// ErrNilDriver is returned by NewRegistry when no driver is supplied.
	ErrNilDriver = errors.New("driver is required")
)

// ConfigError reports an unusable registry configuration. Setting names the
// offending setting; Err is one of the sentinel errors above, possibly wrapped
// with detail.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(setting string, err error) error {
	return &ConfigError{Setting: setting, Err: err}
}
