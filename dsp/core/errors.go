package core

import "errors"

// Error kinds shared by the analysis, splice and scheduling packages.
// Callers match them with errors.Is; the returned errors carry context.
var (
	// ErrLoadFailure reports that a backing sample could not be obtained.
	ErrLoadFailure = errors.New("sample load failed")

	// ErrNoPeriodicSignal reports that no grain could be extracted, so no
	// pitch period is defined.
	ErrNoPeriodicSignal = errors.New("no periodic signal")

	// ErrNoVoicedRegion reports that no analysis frame exceeded the energy
	// threshold.
	ErrNoVoicedRegion = errors.New("no voiced region")

	// ErrUnsatisfiableSplice reports that no pitch mark satisfies the splice
	// constraints for the requested fade length.
	ErrUnsatisfiableSplice = errors.New("unsatisfiable splice")

	// ErrInvalidParameter reports a caller construction error such as a
	// non-positive ratio or fade length.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSampleRateMismatch reports two buffers combined at different rates.
	ErrSampleRateMismatch = errors.New("sample rate mismatch")
)
