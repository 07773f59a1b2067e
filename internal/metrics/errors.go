package metrics

import (
	"errors"
	"fmt"
)

// Error taxonomy for the metrics engine. All three are surfaced
// synchronously to the caller and matchable with errors.Is.
var (
	// ErrUsage marks lifecycle calls made out of order.
	ErrUsage = errors.New("usage error")
	// ErrConfig marks an invalid tracking configuration, reported at init.
	ErrConfig = errors.New("configuration error")
	// ErrDataShape marks a step sample missing a declared arm side or
	// object key, reported at the offending step call.
	ErrDataShape = errors.New("data shape error")
)

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

func configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func shapef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataShape, fmt.Sprintf(format, args...))
}
