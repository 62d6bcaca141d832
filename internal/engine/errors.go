package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Configuration and input errors. Compare with errors.Is.
var (
	// ErrRecipeCycle indicates a recipe graph cycle other than a direct
	// self-reference.
	ErrRecipeCycle = constError("recipe cycle detected")

	// ErrMissingElectricity indicates no electricity GHG factor exists for the
	// computing country.
	ErrMissingElectricity = constError("missing electricity factor for country")

	// ErrMissingCarrier indicates an energy carrier with non-zero demand has no
	// GHG factor.
	ErrMissingCarrier = constError("missing energy carrier factor")

	// ErrMissingTable indicates a required reference table was never set.
	ErrMissingTable = constError("reference table not set")

	// ErrNotConfigured is returned by a zero-value Engine.
	ErrNotConfigured = constError("engine not configured")

	// ErrVectorLength indicates vectors of one dimension disagree in length.
	ErrVectorLength = constError("vector length mismatch")

	// ErrInvalidAmount indicates a negative or non-finite diet amount.
	ErrInvalidAmount = constError("invalid amount")

	// ErrInvalidFactor indicates a share, yield or waste fraction outside its
	// valid range.
	ErrInvalidFactor = constError("invalid factor")
)
