package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/uvsystems/uvcalc/internal/dose"
	"github.com/uvsystems/uvcalc/pkg/catalog"
	"go.uber.org/zap"
)

// fakeCalculator is a deterministic stand-in for the dose model
type fakeCalculator struct {
	red  float64
	err  error
	last dose.Params
}

func (f *fakeCalculator) ComputeRED(_ context.Context, p dose.Params) (float64, error) {
	f.last = p
	return f.red, f.err
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.System{
		{
			Type:           "RZ-104-11",
			LampCount:      1,
			LampPowerWatts: 320,
			Limits: catalog.Ranges{
				Flow: catalog.Range{Min: 10, Max: 500, Unit: "m3/h"},
				UVT:  catalog.Range{Min: 40, Max: 98, Unit: "%"},
			},
		},
		{
			Type:           "RZM-200-5",
			LampCount:      5,
			LampPowerWatts: 200,
			Limits: catalog.Ranges{
				Flow: catalog.Range{Min: 20, Max: 800, Unit: "m3/h"},
				UVT:  catalog.Range{Min: 45, Max: 98, Unit: "%"},
			},
		},
	})
	if err != nil {
		t.Fatalf("building test catalog: %v", err)
	}
	return c
}

func validRequest() *Request {
	return &Request{
		Application: "Municipal",
		Module:      "RZ-104",
		Model:       "11",
		Branch:      "Main",
		Position:    "Vertical",
		LampType:    "Regular",
		FlowRate:    100,
		FlowUnits:   FlowUnitM3H,
		UVT254:      85,
		UVT215:      UVT215Unset,
		Power:       Uniform(90),
		Efficiency:  Uniform(80),
	}
}

func newTestEngine(t *testing.T, calc dose.Calculator) *Engine {
	t.Helper()
	return New(testCatalog(t), calc, zap.NewNop().Sugar())
}

func TestCalculateSuccess(t *testing.T) {
	calc := &fakeCalculator{red: 42.35}
	e := newTestEngine(t, calc)

	res, err := e.Calculate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if res.RED != 42.4 {
		t.Errorf("RED = %v, want 42.4 (rounded to one decimal)", res.RED)
	}
	if res.Details.SystemType != "RZ-104-11" {
		t.Errorf("SystemType = %q, want RZ-104-11", res.Details.SystemType)
	}
	if res.Details.NumberOfLamps != 1 {
		t.Errorf("NumberOfLamps = %d, want 1", res.Details.NumberOfLamps)
	}
	if res.Details.LampPowerWatts != 320 {
		t.Errorf("LampPowerWatts = %v, want 320", res.Details.LampPowerWatts)
	}
	if len(res.Details.LampSettings.Power) != res.Details.NumberOfLamps {
		t.Errorf("lamp power sequence length %d != lamp count %d",
			len(res.Details.LampSettings.Power), res.Details.NumberOfLamps)
	}
	if !reflect.DeepEqual(res.Details.LampSettings.Power, []float64{90}) {
		t.Errorf("lamp power = %v, want [90]", res.Details.LampSettings.Power)
	}
	if !reflect.DeepEqual(res.Details.LampSettings.Efficiency, []float64{80}) {
		t.Errorf("lamp efficiency = %v, want [80]", res.Details.LampSettings.Efficiency)
	}
	if res.Details.Parameters.D1Log != DefaultD1Log {
		t.Errorf("D1Log = %v, want default %v", res.Details.Parameters.D1Log, DefaultD1Log)
	}

	// Pending calculations are explicit not-implemented variants
	for name, m := range map[string]Metric{
		"HeadLoss":                res.HeadLoss,
		"MaxElectricalPower":      res.MaxElectricalPower,
		"AvgLampPowerConsumption": res.AvgLampPowerConsumption,
		"ExpectedLI":              res.ExpectedLI,
	} {
		if m.Computed {
			t.Errorf("%s should be NotImplemented", name)
		}
	}

	// The collaborator received the assembled parameter set
	if calc.last.SystemType != "RZ-104-11" {
		t.Errorf("collaborator got system %q", calc.last.SystemType)
	}
	if len(calc.last.Power) != 1 || calc.last.Power[0] != 90 {
		t.Errorf("collaborator got power settings %v", calc.last.Power)
	}
}

func TestCalculateSystemNotFound(t *testing.T) {
	e := newTestEngine(t, &fakeCalculator{red: 40})

	req := validRequest()
	req.Module = "RZ-999"
	req.Model = "99"

	_, err := e.Calculate(context.Background(), req)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Calculate() error = %v, want NotFoundError", err)
	}
	if notFound.SystemType != "RZ-999-99" {
		t.Errorf("NotFoundError.SystemType = %q, want RZ-999-99", notFound.SystemType)
	}
	if notFound.Error() != "System type 'RZ-999-99' not found" {
		t.Errorf("NotFoundError message = %q", notFound.Error())
	}
}

func TestCalculateRangeViolations(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Request)
		wantFields []string
	}{
		{
			name:       "flow too high",
			mutate:     func(r *Request) { r.FlowRate = 600 },
			wantFields: []string{"flow"},
		},
		{
			name:       "flow too low",
			mutate:     func(r *Request) { r.FlowRate = 5 },
			wantFields: []string{"flow"},
		},
		{
			name:       "UVT below system minimum",
			mutate:     func(r *Request) { r.UVT254 = 30 },
			wantFields: []string{"uvt"},
		},
		{
			name:       "UVT215 below system minimum",
			mutate:     func(r *Request) { r.UVT215 = 20 },
			wantFields: []string{"uvt215"},
		},
		{
			name: "every violation reported",
			mutate: func(r *Request) {
				r.FlowRate = 600
				r.UVT254 = 30
			},
			wantFields: []string{"flow", "uvt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &fakeCalculator{red: 40})
			req := validRequest()
			tt.mutate(req)

			_, err := e.Calculate(context.Background(), req)
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Calculate() error = %v, want RangeError", err)
			}

			var fields []string
			for _, v := range rangeErr.Violations {
				fields = append(fields, v.Field)
			}
			if !reflect.DeepEqual(fields, tt.wantFields) {
				t.Errorf("violated fields = %v, want %v", fields, tt.wantFields)
			}
		})
	}
}

func TestRangeErrorCarriesBounds(t *testing.T) {
	e := newTestEngine(t, &fakeCalculator{red: 40})
	req := validRequest()
	req.FlowRate = 600

	_, err := e.Calculate(context.Background(), req)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Calculate() error = %v, want RangeError", err)
	}

	v := rangeErr.Violations[0]
	if v.Min != 10 || v.Max != 500 || v.Unit != "m3/h" || v.Value != 600 {
		t.Errorf("violation = %+v, want bounds [10, 500] m3/h and value 600", v)
	}
	msg := rangeErr.Error()
	for _, fragment := range []string{"flow", "600.0", "10.0", "500.0", "m3/h"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("RangeError message %q missing %q", msg, fragment)
		}
	}
}

func TestCalculateUSGPMConversion(t *testing.T) {
	calc := &fakeCalculator{red: 40}
	e := newTestEngine(t, calc)

	// 100 US GPM is ~22.7 m3/h, inside the RZ-104-11 envelope even though
	// the raw number would also pass. Use 2500 US GPM (~568 m3/h) to prove
	// the range check sees the converted value.
	req := validRequest()
	req.FlowUnits = FlowUnitUSGPM
	req.FlowRate = 2500

	_, err := e.Calculate(context.Background(), req)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Calculate() error = %v, want RangeError for converted flow", err)
	}

	// And a flow that is only valid after conversion
	req.FlowRate = 100
	res, err := e.Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if calc.last.Flow <= 22 || calc.last.Flow >= 23 {
		t.Errorf("collaborator flow = %v m3/h, want ~22.7", calc.last.Flow)
	}
	// The echoed parameter keeps the caller's original value and units
	if res.Details.Parameters.Flow != 100 {
		t.Errorf("echoed flow = %v, want 100", res.Details.Parameters.Flow)
	}
}

func TestCalculatePerLampOverrides(t *testing.T) {
	calc := &fakeCalculator{red: 40}
	e := newTestEngine(t, calc)

	req := validRequest()
	req.Module = "RZM-200"
	req.Model = "5"
	req.FlowRate = 100
	req.Power = LampSettings{
		AllLamps: Uniform(90).AllLamps,
		PerLamp:  map[int]float64{2: 50, 5: 0},
	}

	res, err := e.Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	want := []float64{90, 50, 90, 90, 0}
	if !reflect.DeepEqual(res.Details.LampSettings.Power, want) {
		t.Errorf("lamp power = %v, want %v", res.Details.LampSettings.Power, want)
	}
}

func TestCalculateInvalidLampIndex(t *testing.T) {
	e := newTestEngine(t, &fakeCalculator{red: 40})

	req := validRequest()
	req.Power = LampSettings{PerLamp: map[int]float64{3: 50}}

	_, err := e.Calculate(context.Background(), req)
	var settingsErr *SettingsError
	if !errors.As(err, &settingsErr) {
		t.Fatalf("Calculate() error = %v, want SettingsError", err)
	}
	if settingsErr.Error() != "Invalid lamp index 3. System has 1 lamps" {
		t.Errorf("SettingsError message = %q", settingsErr.Error())
	}
}

func TestCalculateCollaboratorFailure(t *testing.T) {
	e := newTestEngine(t, &fakeCalculator{err: fmt.Errorf("solver diverged")})

	_, err := e.Calculate(context.Background(), validRequest())
	var calcErr *CalculationError
	if !errors.As(err, &calcErr) {
		t.Fatalf("Calculate() error = %v, want CalculationError", err)
	}
	if !strings.Contains(calcErr.Error(), "solver diverged") {
		t.Errorf("CalculationError message %q should carry the cause", calcErr.Error())
	}
}

func TestCalculateNonPositiveREDIsError(t *testing.T) {
	e := newTestEngine(t, &fakeCalculator{red: 0})

	_, err := e.Calculate(context.Background(), validRequest())
	var calcErr *CalculationError
	if !errors.As(err, &calcErr) {
		t.Fatalf("Calculate() error = %v, want CalculationError", err)
	}
}

func TestCalculateDefaultsApplied(t *testing.T) {
	calc := &fakeCalculator{red: 40}
	e := newTestEngine(t, calc)

	req := validRequest()
	req.Power = LampSettings{}
	req.Efficiency = LampSettings{}
	req.D1Log = 0

	_, err := e.Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if calc.last.Power[0] != DefaultDrive {
		t.Errorf("default drive = %v, want %v", calc.last.Power[0], DefaultDrive)
	}
	if calc.last.Efficiency[0] != DefaultEfficiency {
		t.Errorf("default efficiency = %v, want %v", calc.last.Efficiency[0], DefaultEfficiency)
	}
	if calc.last.D1Log != DefaultD1Log {
		t.Errorf("default D1Log = %v, want %v", calc.last.D1Log, DefaultD1Log)
	}
}

func TestMetricJSON(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		want   string
	}{
		{"not implemented", NotImplemented, `"TBD"`},
		{"computed", ComputedMetric(12.5), `12.5`},
		{"computed zero is distinct from TBD", ComputedMetric(0), `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.metric)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal() = %s, want %s", b, tt.want)
			}
		})
	}
}
