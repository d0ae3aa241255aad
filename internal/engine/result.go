package engine

import (
	"encoding/json"
	"math"
)

// Metric is a calculation output that is either a computed value or not yet
// implemented. Marshals as a number when computed and as the "TBD" sentinel
// otherwise, so callers can tell a pending field from a computed zero.
// Implementing one of the pending calculations later is a pure variant-arm
// change with no response-shape change.
type Metric struct {
	Computed bool
	Value    float64
}

// ComputedMetric returns a Metric carrying a computed value
func ComputedMetric(v float64) Metric {
	return Metric{Computed: true, Value: v}
}

// NotImplemented is the sentinel for outputs without a backing computation.
var NotImplemented = Metric{}

// MarshalJSON renders the tagged variant
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Computed {
		return json.Marshal("TBD")
	}
	return json.Marshal(m.Value)
}

// Parameters echoes the inputs the calculation actually used. UVT215 is
// negative when it was not provided.
type Parameters struct {
	Flow   float64
	UVT    float64
	UVT215 float64
	D1Log  float64
}

// LampValues holds per-lamp settings sequences, indexed by lamp position.
type LampValues struct {
	Power      []float64
	Efficiency []float64
}

// Details is the diagnostic block attached to every successful calculation.
type Details struct {
	SystemType     string
	NumberOfLamps  int
	LampPowerWatts float64
	Parameters     Parameters
	LampSettings   LampValues
}

// Result is a complete successful calculation, constructed per request and
// never persisted.
type Result struct {
	RED                     float64
	HeadLoss                Metric
	MaxElectricalPower      Metric
	AvgLampPowerConsumption Metric
	ExpectedLI              Metric
	Details                 Details
}

// round1 rounds to one decimal place, matching the precision of reported
// engineering values.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
