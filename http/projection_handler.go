package http

import (
	"net/http"

	"loan-payoff/domain"
	"loan-payoff/service"
)

type ProjectionHandler struct {
	service *service.ProjectionService
}

func NewProjectionHandler(service *service.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{service: service}
}

func (h *ProjectionHandler) Project(w http.ResponseWriter, r *http.Request) {
	var input domain.ProjectionInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.Project(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ValidatePayment answers 200 for both outcomes; the verdict is in the body.
func (h *ProjectionHandler) ValidatePayment(w http.ResponseWriter, r *http.Request) {
	var input domain.ProjectionInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.Validate(input.CurrentBalance, input.InterestRate, input.MonthlyPayment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
