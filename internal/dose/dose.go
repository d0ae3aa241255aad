// Package dose provides the dose-calculation collaborator behind a narrow
// interface so the calculation pipeline can be tested against a
// deterministic fake.
package dose

import "context"

// Params is the assembled parameter set for a single RED computation.
// Flow is always in m3/h; lamp settings are percentages, one entry per lamp.
type Params struct {
	SystemType     string
	Flow           float64
	UVT254         float64
	UVT215         float64 // <= 0 when not provided
	D1Log          float64
	LampPowerWatts float64
	// Per-lamp relative drive and efficiency, both in percent. Lengths
	// must match and equal the system's lamp count.
	Power      []float64
	Efficiency []float64
}

// Calculator computes the Reduction Equivalent Dose for a parameter set.
type Calculator interface {
	ComputeRED(ctx context.Context, p Params) (float64, error)
}
