// Package decoerr collects the core's recoverable error values (spec.md
// section 6 Error table, section 7 class 2). Precondition violations
// (negative depth, invalid config at construction) are not here: those
// panic at the boundary that detects them, per spec.md section 7 class 1.
package decoerr

import "errors"

// ErrEmptyGasList is returned by the planner when given no gas mixes at all.
var ErrEmptyGasList = errors.New("deco: gas list must not be empty")

// ErrCurrentGasNotInList is returned by the planner when the model's current
// gas is not among the gases it was given.
var ErrCurrentGasNotInList = errors.New("deco: current gas not in gas list")

// ConfigValidationError reports a single invalid configuration field,
// returned by Config.Validate (and panicked with at model construction,
// since an invalid config is a programmer error, not recoverable runtime
// state).
type ConfigValidationError struct {
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return "config error [" + e.Field + "]: " + e.Reason
}
