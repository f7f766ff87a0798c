package environment

import "errors"

var (
	// ErrTargetRequired is returned by Parse when the descriptor is blank.
	ErrTargetRequired = errors.New("target environment descriptor is required")

	// ErrMalformedEnvironment is returned by Parse when a segment does not
	// contain exactly three comma separated parts (browser, version, platform).
	ErrMalformedEnvironment = errors.New("each environment needs exactly 3 parts (browser, version, platform)")

	// ErrUnknownPlatform is returned when a platform name is not part of the
	// platform enumeration.
	ErrUnknownPlatform = errors.New("unknown platform")
)
