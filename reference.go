package omd

// Reference data the engine needs is passed in explicitly; the adapters in
// refdata resolve it from their sources and fall back to these defaults when
// a source has no value for the requested key.
const (
	// DefaultIndexSpot is the fallback index (UVR) value when no series
	// covers the settlement date.
	DefaultIndexSpot = 100.0
	// DefaultInflation is the fallback annual inflation, as a fraction.
	DefaultInflation = 0.03
)
