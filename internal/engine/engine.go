// Package engine implements the calculation request pipeline: system
// resolution against the catalog, operating-envelope checks, per-lamp
// settings assembly, invocation of the dose calculator, and result assembly.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/uvsystems/uvcalc/internal/dose"
	"github.com/uvsystems/uvcalc/pkg/catalog"
	"go.uber.org/zap"
)

// Calculation defaults
const (
	DefaultDrive      = 100.0 // [%]
	DefaultEfficiency = 100.0 // [%]
	DefaultD1Log      = 18.0
	UVT215Unset       = -1.0
)

// usGPMToM3h converts US gallons per minute to cubic meters per hour.
const usGPMToM3h = 0.2271247

// Flow unit identifiers accepted in requests
const (
	FlowUnitM3H   = "m3/h"
	FlowUnitUSGPM = "US GPM"
)

// LampSettings carries a uniform percentage for all lamps plus optional
// per-lamp overrides keyed by 1-based lamp index. A nil AllLamps falls back
// to the calculation default; zero is a legal explicit setting.
type LampSettings struct {
	AllLamps *float64
	PerLamp  map[int]float64
}

// Uniform builds settings with a single value applied to every lamp
func Uniform(v float64) LampSettings {
	return LampSettings{AllLamps: &v}
}

// Request is a fully-validated calculation request. Shape-level validation
// happens at the transport layer; the engine assumes fields are typed and
// within generic bounds.
type Request struct {
	Application string
	Module      string
	Model       string
	Branch      string
	Position    string
	LampType    string
	FlowRate    float64
	FlowUnits   string
	UVT254      float64
	UVT215      float64 // UVT215Unset when not provided
	D1Log       float64 // <= 0 means not provided
	Pathogen    string

	Power      LampSettings
	Efficiency LampSettings
}

// SystemType derives the catalog key from the request's Module and Model.
func (r *Request) SystemType() string {
	return r.Module + "-" + r.Model
}

// Engine runs the calculation pipeline. It holds only read-only state and is
// safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	calc    dose.Calculator
	logger  *zap.SugaredLogger
}

// New creates a calculation engine
func New(cat *catalog.Catalog, calc dose.Calculator, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		catalog: cat,
		calc:    calc,
		logger:  logger,
	}
}

// Catalog returns the engine's system catalog. The ranges query surface uses
// the same catalog as calculation so the two can never drift.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Calculate runs the full pipeline for one request.
func (e *Engine) Calculate(ctx context.Context, req *Request) (*Result, error) {
	systemType := req.SystemType()

	system, ok := e.catalog.System(systemType)
	if !ok {
		return nil, &NotFoundError{SystemType: systemType}
	}

	// Range checks happen in catalog units, so US GPM flows are converted
	// before comparison.
	flow := req.FlowRate
	if req.FlowUnits == FlowUnitUSGPM {
		flow = req.FlowRate * usGPMToM3h
	}

	if err := checkRanges(systemType, system.Limits, flow, req.UVT254, req.UVT215); err != nil {
		return nil, err
	}

	power, err := buildLampValues(req.Power, DefaultDrive, system.LampCount)
	if err != nil {
		return nil, err
	}
	efficiency, err := buildLampValues(req.Efficiency, DefaultEfficiency, system.LampCount)
	if err != nil {
		return nil, err
	}

	d1Log := req.D1Log
	if d1Log <= 0 {
		d1Log = DefaultD1Log
	}

	params := dose.Params{
		SystemType:     systemType,
		Flow:           flow,
		UVT254:         req.UVT254,
		UVT215:         req.UVT215,
		D1Log:          d1Log,
		LampPowerWatts: system.LampPowerWatts,
		Power:          power,
		Efficiency:     efficiency,
	}

	red, err := e.calc.ComputeRED(ctx, params)
	if err != nil {
		return nil, &CalculationError{Reason: "calculation failed", Err: err}
	}
	if red <= 0 {
		return nil, &CalculationError{Reason: "calculation resulted in invalid RED value"}
	}

	e.logger.Debugw("calculation complete",
		"system_type", systemType,
		"flow", flow,
		"uvt", req.UVT254,
		"red", red,
	)

	return &Result{
		RED:                     round1(red),
		HeadLoss:                NotImplemented,
		MaxElectricalPower:      NotImplemented,
		AvgLampPowerConsumption: NotImplemented,
		ExpectedLI:              NotImplemented,
		Details: Details{
			SystemType:     systemType,
			NumberOfLamps:  system.LampCount,
			LampPowerWatts: round1(system.LampPowerWatts),
			Parameters: Parameters{
				Flow:   req.FlowRate,
				UVT:    req.UVT254,
				UVT215: req.UVT215,
				D1Log:  d1Log,
			},
			LampSettings: LampValues{
				Power:      roundAll(power),
				Efficiency: roundAll(efficiency),
			},
		},
	}, nil
}

// checkRanges validates parameters against the resolved system's operating
// envelope, collecting every violation rather than stopping at the first.
func checkRanges(systemType string, limits catalog.Ranges, flow, uvt254, uvt215 float64) error {
	var violations []RangeViolation

	if !limits.Flow.Contains(flow) {
		violations = append(violations, RangeViolation{
			Field: "flow",
			Value: flow,
			Min:   limits.Flow.Min,
			Max:   limits.Flow.Max,
			Unit:  limits.Flow.Unit,
		})
	}
	if !limits.UVT.Contains(uvt254) {
		violations = append(violations, RangeViolation{
			Field: "uvt",
			Value: uvt254,
			Min:   limits.UVT.Min,
			Max:   limits.UVT.Max,
			Unit:  limits.UVT.Unit,
		})
	}
	if uvt215 > 0 && !limits.UVT.Contains(uvt215) {
		violations = append(violations, RangeViolation{
			Field: "uvt215",
			Value: uvt215,
			Min:   limits.UVT.Min,
			Max:   limits.UVT.Max,
			Unit:  limits.UVT.Unit,
		})
	}

	if len(violations) > 0 {
		return &RangeError{SystemType: systemType, Violations: violations}
	}
	return nil
}

// buildLampValues expands lamp settings into one value per lamp: the uniform
// value first, then any per-lamp overrides. Lamp indexes are 1-based.
func buildLampValues(s LampSettings, defaultValue float64, lampCount int) ([]float64, error) {
	uniform := defaultValue
	if s.AllLamps != nil {
		uniform = *s.AllLamps
	}
	if uniform < 0 || uniform > 100 {
		return nil, &SettingsError{
			Msg: fmt.Sprintf("Invalid lamp setting %.1f: must be in [0, 100]", uniform),
		}
	}

	values := make([]float64, lampCount)
	for i := range values {
		values[i] = uniform
	}

	if len(s.PerLamp) > 0 {
		// Apply overrides in index order so error reporting is stable
		indexes := make([]int, 0, len(s.PerLamp))
		for idx := range s.PerLamp {
			indexes = append(indexes, idx)
		}
		sort.Ints(indexes)

		for _, idx := range indexes {
			if idx < 1 || idx > lampCount {
				return nil, &SettingsError{
					Msg: fmt.Sprintf("Invalid lamp index %d. System has %d lamps", idx, lampCount),
				}
			}
			v := s.PerLamp[idx]
			if v < 0 || v > 100 {
				return nil, &SettingsError{
					Msg: fmt.Sprintf("Invalid lamp setting %.1f for lamp %d: must be in [0, 100]", v, idx),
				}
			}
			values[idx-1] = v
		}
	}

	return values, nil
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = round1(v)
	}
	return out
}
