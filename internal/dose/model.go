package dose

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// doseScale converts effective lamp output per unit flow into a dose in
// mJ/cm2. Calibrated so a single 320 W lamp at full drive through 100 m3/h
// of high-transmittance water lands near 100 mJ/cm2.
const doseScale = 4.0e4

// UVT transmission anchor points. The predictor interpolates between them;
// values are strictly increasing so the dose is monotone in UVT.
var (
	uvtAnchors    = []float64{0, 10, 40, 60, 75, 85, 92, 97, 100}
	factorAnchors = []float64{0.01, 0.05, 0.25, 0.45, 0.62, 0.78, 0.88, 0.96, 1.0}
)

// Model is the built-in deterministic RED model.
type Model struct {
	transmission interp.PiecewiseLinear
}

// NewModel creates the built-in RED model
func NewModel() (*Model, error) {
	m := &Model{}
	if err := m.transmission.Fit(uvtAnchors, factorAnchors); err != nil {
		return nil, fmt.Errorf("failed to fit transmission curve: %w", err)
	}
	return m, nil
}

// ComputeRED calculates the Reduction Equivalent Dose for the given
// parameter set. The D-1Log target is carried in Params for parity with the
// calculation contract but does not enter the current model; it is reserved
// for pathogen-specific scaling.
func (m *Model) ComputeRED(_ context.Context, p Params) (float64, error) {
	n := len(p.Power)
	if n == 0 {
		return 0, fmt.Errorf("no lamp settings provided for system %s", p.SystemType)
	}
	if len(p.Efficiency) != n {
		return 0, fmt.Errorf("lamp setting length mismatch: %d power vs %d efficiency", n, len(p.Efficiency))
	}
	if p.Flow <= 0 {
		return 0, fmt.Errorf("flow must be positive, got %v", p.Flow)
	}
	if p.UVT254 <= 0 || p.UVT254 > 100 {
		return 0, fmt.Errorf("UVT254 out of model domain: %v", p.UVT254)
	}

	// Effective UV output in kW across all lamps
	outputs := make([]float64, n)
	for i := range outputs {
		outputs[i] = p.LampPowerWatts * (p.Power[i] / 100) * (p.Efficiency[i] / 100) / 1000
	}
	totalKW := floats.Sum(outputs)

	factor := m.transmission.Predict(p.UVT254)

	// A 215 nm reading, when supplied, attenuates the delivered dose for
	// the low-wavelength fraction of the spectrum.
	if p.UVT215 > 0 {
		factor *= 0.85 + 0.15*m.transmission.Predict(math.Min(p.UVT215, 100))
	}

	red := doseScale * totalKW * factor / p.Flow

	if math.IsNaN(red) || math.IsInf(red, 0) || red <= 0 {
		return 0, fmt.Errorf("calculation resulted in invalid RED value")
	}

	return red, nil
}
