package restserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/uvsystems/uvcalc/internal/engine"
)

// Enumerated value domains for request fields
var (
	applicationTypes = []string{"Full Range", "Municipal", "Dechlorination"}
	positionTypes    = []string{"Vertical", "Horizontal"}
	lampTypes        = []string{"Regular", "OzoneFree", "VUV"}
	flowUnits        = []string{engine.FlowUnitM3H, engine.FlowUnitUSGPM}
)

// Request field display names, used as JSON keys and in validation locs
const (
	fieldApplication = "Application"
	fieldModule      = "Module"
	fieldModel       = "Model"
	fieldBranch      = "Branch"
	fieldPosition    = "Position"
	fieldLampType    = "Lamp Type"
	fieldEfficiency  = "Efficiency"
	fieldRelDrive    = "Relative Drive"
	fieldUVT254      = "UVT-1cm@254nm"
	fieldUVT215      = "UVT-1cm@215nm"
	fieldFlowRate    = "Flow Rate"
	fieldFlowUnits   = "Flow Units"
	fieldD1Log       = "D-1Log"
	fieldPathogen    = "Pathogen"
)

// fieldIssue is one entry in a 422 validation failure, identifying the
// offending field, the kind of failure, and a human-readable message.
type fieldIssue struct {
	Type string   `json:"type"`
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
}

func issue(kind, field, msg string) fieldIssue {
	return fieldIssue{Type: kind, Loc: []string{"body", field}, Msg: msg}
}

// validationErrorResponse is the 422 body: every offending field, not just
// the first.
type validationErrorResponse struct {
	Detail []fieldIssue `json:"detail"`
}

// errorResponse is the 400/404/500 body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// healthResponse reports process liveness and catalog initialization.
type healthResponse struct {
	Status                string `json:"status"`
	CalculatorInitialized bool   `json:"calculator_initialized"`
}

// rangesResponse is the body of GET /system/{system_type}/ranges.
type rangesResponse struct {
	SystemType string       `json:"system_type"`
	Ranges     rangesDetail `json:"ranges"`
	Status     string       `json:"status"`
}

type rangesDetail struct {
	Flow rangeDetail `json:"flow"`
	UVT  rangeDetail `json:"uvt"`
}

type rangeDetail struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// supportedSystemsResponse is the body of GET /systems/supported.
type supportedSystemsResponse struct {
	Systems map[string][]string `json:"systems"`
	Status  string              `json:"status"`
}

// calculationResponse is the success body of POST /calculate. Keys are the
// display names the frontend expects.
type calculationResponse struct {
	RED                     float64            `json:"Reduction Equivalent Dose"`
	HeadLoss                engine.Metric      `json:"Head Loss"`
	MaxElectricalPower      engine.Metric      `json:"Maximum Electrical Power"`
	AvgLampPowerConsumption engine.Metric      `json:"Average Lamp Power Consumption"`
	ExpectedLI              engine.Metric      `json:"Expected LI"`
	Status                  string             `json:"status"`
	Details                 calculationDetails `json:"calculation_details"`
}

type calculationDetails struct {
	SystemType     string            `json:"system_type"`
	NumberOfLamps  int               `json:"number_of_lamps"`
	LampPowerWatts float64           `json:"lamp_power_watts"`
	Parameters     detailsParameters `json:"parameters"`
	LampSettings   detailsSettings   `json:"lamp_settings"`
}

type detailsParameters struct {
	Flow   float64       `json:"flow"`
	UVT    float64       `json:"uvt"`
	UVT215 optionalValue `json:"uvt215"`
	D1Log  float64       `json:"d1_log"`
}

type detailsSettings struct {
	Power      []float64 `json:"power"`
	Efficiency []float64 `json:"efficiency"`
}

// optionalValue marshals as its numeric value when positive and as "N/A"
// otherwise, matching the contract for optional parameters echoed back in
// calculation_details.
type optionalValue float64

func (o optionalValue) MarshalJSON() ([]byte, error) {
	if o <= 0 {
		return json.Marshal("N/A")
	}
	return json.Marshal(float64(o))
}

// newCalculationResponse maps an engine result onto the response contract
func newCalculationResponse(res *engine.Result) calculationResponse {
	return calculationResponse{
		RED:                     res.RED,
		HeadLoss:                res.HeadLoss,
		MaxElectricalPower:      res.MaxElectricalPower,
		AvgLampPowerConsumption: res.AvgLampPowerConsumption,
		ExpectedLI:              res.ExpectedLI,
		Status:                  "success",
		Details: calculationDetails{
			SystemType:     res.Details.SystemType,
			NumberOfLamps:  res.Details.NumberOfLamps,
			LampPowerWatts: res.Details.LampPowerWatts,
			Parameters: detailsParameters{
				Flow:   res.Details.Parameters.Flow,
				UVT:    res.Details.Parameters.UVT,
				UVT215: optionalValue(res.Details.Parameters.UVT215),
				D1Log:  res.Details.Parameters.D1Log,
			},
			LampSettings: detailsSettings{
				Power:      res.Details.LampSettings.Power,
				Efficiency: res.Details.LampSettings.Efficiency,
			},
		},
	}
}

// decodeCalculationRequest parses and shape-validates a request body. It
// returns either a fully-typed engine request or the complete list of field
// issues. System-specific range checks happen later in the engine; the
// checks here are generic shape checks only.
func decodeCalculationRequest(body []byte) (*engine.Request, []fieldIssue) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, []fieldIssue{{
			Type: "json_invalid",
			Loc:  []string{"body"},
			Msg:  "Input should be a valid JSON object",
		}}
	}

	var issues []fieldIssue

	application := requireEnum(raw, fieldApplication, applicationTypes, &issues)
	module := requireString(raw, fieldModule, &issues)
	model := requireString(raw, fieldModel, &issues)
	branch := requireString(raw, fieldBranch, &issues)
	position := requireEnum(raw, fieldPosition, positionTypes, &issues)
	lampType := requireEnum(raw, fieldLampType, lampTypes, &issues)
	units := requireEnum(raw, fieldFlowUnits, flowUnits, &issues)

	efficiency := requirePercentage(raw, fieldEfficiency, &issues)
	relDrive := requirePercentage(raw, fieldRelDrive, &issues)
	uvt254 := requirePercentage(raw, fieldUVT254, &issues)

	uvt215 := engine.UVT215Unset
	if v, ok, valid := optionalFloat(raw, fieldUVT215, &issues); ok && valid {
		if checkPercentage(fieldUVT215, v, &issues) {
			uvt215 = v
		}
	}

	flowRate, flowOK := requireFloat(raw, fieldFlowRate, &issues)
	if flowOK && flowRate <= 0 {
		issues = append(issues, issue("greater_than", fieldFlowRate, "Input should be greater than 0"))
	}

	d1Log := 0.0
	if v, ok, valid := optionalFloat(raw, fieldD1Log, &issues); ok && valid {
		d1Log = v
	}

	pathogen := ""
	if rawV, ok := raw[fieldPathogen]; ok && !isJSONNull(rawV) {
		if err := json.Unmarshal(rawV, &pathogen); err != nil {
			issues = append(issues, issue("string_type", fieldPathogen, "Input should be a valid string"))
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return &engine.Request{
		Application: application,
		Module:      module,
		Model:       model,
		Branch:      branch,
		Position:    position,
		LampType:    lampType,
		FlowRate:    flowRate,
		FlowUnits:   units,
		UVT254:      uvt254,
		UVT215:      uvt215,
		D1Log:       d1Log,
		Pathogen:    pathogen,
		Power:       engine.Uniform(relDrive),
		Efficiency:  engine.Uniform(efficiency),
	}, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// requireString enforces presence and string type
func requireString(raw map[string]json.RawMessage, field string, issues *[]fieldIssue) string {
	rawV, ok := raw[field]
	if !ok || isJSONNull(rawV) {
		*issues = append(*issues, issue("missing", field, "Field required"))
		return ""
	}
	var v string
	if err := json.Unmarshal(rawV, &v); err != nil {
		*issues = append(*issues, issue("string_type", field, "Input should be a valid string"))
		return ""
	}
	return v
}

// requireEnum enforces presence and membership in a fixed value set,
// case-sensitive.
func requireEnum(raw map[string]json.RawMessage, field string, allowed []string, issues *[]fieldIssue) string {
	before := len(*issues)
	v := requireString(raw, field, issues)
	if len(*issues) > before {
		return ""
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	*issues = append(*issues, issue("enum", field,
		fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))))
	return ""
}

// requireFloat enforces presence and numeric type. The bool result reports
// whether a usable value was parsed.
func requireFloat(raw map[string]json.RawMessage, field string, issues *[]fieldIssue) (float64, bool) {
	rawV, ok := raw[field]
	if !ok || isJSONNull(rawV) {
		*issues = append(*issues, issue("missing", field, "Field required"))
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(rawV, &v); err != nil {
		*issues = append(*issues, issue("float_parsing", field, "Input should be a valid number"))
		return 0, false
	}
	return v, true
}

// optionalFloat parses a field that may be absent. The first bool reports
// presence, the second whether the present value parsed as a number.
func optionalFloat(raw map[string]json.RawMessage, field string, issues *[]fieldIssue) (float64, bool, bool) {
	rawV, ok := raw[field]
	if !ok || isJSONNull(rawV) {
		return 0, false, false
	}
	var v float64
	if err := json.Unmarshal(rawV, &v); err != nil {
		*issues = append(*issues, issue("float_parsing", field, "Input should be a valid number"))
		return 0, true, false
	}
	return v, true, true
}

// checkPercentage enforces the generic [0, 100] bound
func checkPercentage(field string, v float64, issues *[]fieldIssue) bool {
	if v < 0 {
		*issues = append(*issues, issue("greater_than_equal", field, "Input should be greater than or equal to 0"))
		return false
	}
	if v > 100 {
		*issues = append(*issues, issue("less_than_equal", field, "Input should be less than or equal to 100"))
		return false
	}
	return true
}

func requirePercentage(raw map[string]json.RawMessage, field string, issues *[]fieldIssue) float64 {
	v, ok := requireFloat(raw, field, issues)
	if !ok {
		return 0
	}
	if !checkPercentage(field, v, issues) {
		return 0
	}
	return v
}
