package http

import (
	"net/http"

	"loan-payoff/domain"
	"loan-payoff/service"
)

type PortfolioHandler struct {
	service *service.PortfolioService
}

func NewPortfolioHandler(service *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

func (h *PortfolioHandler) PlanPayoff(w http.ResponseWriter, r *http.Request) {
	var input domain.PortfolioInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.PlanPayoff(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
