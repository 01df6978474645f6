// Package signals turns streaming technical indicators into bounded trading
// signals.
package signals

import (
	"fmt"
	"math"

	gctmath "github.com/dgunay/techalyzer/common/math"
)

// New validates v as a signal
func New(v float64) (Signal, error) {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}
	return Signal(v), nil
}

// Clamp forces v into [-1, 1]. NaN means no opinion and maps to zero.
func Clamp(v float64) Signal {
	if math.IsNaN(v) {
		return 0
	}
	return Signal(gctmath.Clamp(v, -1, 1))
}

// bounded converts a generator result that is already expected to lie in
// range, asserting so in checked builds
func bounded(v float64) Signal {
	if math.IsNaN(v) {
		return 0
	}
	if checkInvariants && (v < -1 || v > 1) {
		panic(fmt.Sprintf("signal %v escaped [-1, 1]", v))
	}
	return Clamp(v)
}

// Float returns the signal as a float64
func (s Signal) Float() float64 {
	return float64(s)
}
