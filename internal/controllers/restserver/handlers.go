package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/uvsystems/uvcalc/internal/engine"
	"github.com/uvsystems/uvcalc/internal/log"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("error encoding response to JSON: %v", err)
	}
}

// GetHealth reports process liveness and calculator initialization status,
// independent of any in-flight calculation.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:                "healthy",
		CalculatorInitialized: h.controller.engine != nil,
	})
}

// PostCalculate is the main calculation endpoint. Shape validation failures
// come back as a 422 with every offending field; domain failures map onto
// 404 (unknown system), 400 (range violation, calculation error), or 500.
func (h *Handlers) PostCalculate(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "error reading request body"})
		return
	}

	calcReq, issues := decodeCalculationRequest(body)
	if issues != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{Detail: issues})
		return
	}

	result, err := h.controller.engine.Calculate(req.Context(), calcReq)
	if err != nil {
		h.writeCalculationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCalculationResponse(result))
}

// writeCalculationError maps pipeline errors onto the HTTP error contract
func (h *Handlers) writeCalculationError(w http.ResponseWriter, err error) {
	var notFound *engine.NotFoundError
	var rangeErr *engine.RangeError
	var settingsErr *engine.SettingsError
	var calcErr *engine.CalculationError

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: notFound.Error()})
	case errors.As(err, &rangeErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: rangeErr.Error()})
	case errors.As(err, &settingsErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: settingsErr.Error()})
	case errors.As(err, &calcErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: calcErr.Error()})
	default:
		log.Errorf("unexpected error in calculate endpoint: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

// GetSystemRanges returns the operating envelope for a specific system.
// Serves from the same catalog the calculation pipeline validates against,
// so the two can never disagree.
func (h *Handlers) GetSystemRanges(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	systemType := vars["system_type"]

	ranges, ok := h.controller.engine.Catalog().Ranges(systemType)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Detail: fmt.Sprintf("System type '%s' not found", systemType),
		})
		return
	}

	writeJSON(w, http.StatusOK, rangesResponse{
		SystemType: systemType,
		Ranges: rangesDetail{
			Flow: rangeDetail{Min: ranges.Flow.Min, Max: ranges.Flow.Max, Unit: ranges.Flow.Unit},
			UVT:  rangeDetail{Min: ranges.UVT.Min, Max: ranges.UVT.Max, Unit: ranges.UVT.Unit},
		},
		Status: "success",
	})
}

// GetSupportedSystems returns the full catalog grouped by product series for
// clients that do not yet know a valid system type.
func (h *Handlers) GetSupportedSystems(w http.ResponseWriter, req *http.Request) {
	systems := h.controller.engine.Catalog().GroupedBySeries()
	if len(systems) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "No supported systems found"})
		return
	}

	writeJSON(w, http.StatusOK, supportedSystemsResponse{
		Systems: systems,
		Status:  "success",
	})
}
