package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"loan-payoff/amortization"
	"loan-payoff/domain"
	"loan-payoff/service"
)

type LiabilityHandler struct {
	service *service.LiabilityService
}

func NewLiabilityHandler(service *service.LiabilityService) *LiabilityHandler {
	return &LiabilityHandler{service: service}
}

type createLiabilityRequest struct {
	Name           string               `json:"name"`
	Kind           domain.LiabilityKind `json:"kind"`
	CurrentBalance float64              `json:"currentBalance"`
	InterestRate   float64              `json:"interestRate"`
	MinimumPayment float64              `json:"minimumPayment"`
	TermMonths     int                  `json:"termMonths"`
	StartDate      string               `json:"startDate"`
}

type transactionRequest struct {
	Date   string                 `json:"date"`
	Amount float64                `json:"amount"`
	Kind   domain.TransactionKind `json:"kind"`
}

func (h *LiabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLiabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), domain.Liability{
		Name:           req.Name,
		Kind:           req.Kind,
		CurrentBalance: req.CurrentBalance,
		InterestRate:   req.InterestRate,
		MinimumPayment: req.MinimumPayment,
		TermMonths:     req.TermMonths,
		StartDate:      start,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *LiabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LiabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LiabilityHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.service.AddTransaction(r.Context(), domain.Transaction{
		LiabilityID: mux.Vars(r)["id"],
		Date:        date,
		Amount:      req.Amount,
		Kind:        req.Kind,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// Project accepts an optional ?payment= override for the planned payment.
// When present it must be a positive number.
func (h *LiabilityHandler) Project(w http.ResponseWriter, r *http.Request) {
	var payment float64
	if raw := r.URL.Query().Get("payment"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, fmt.Errorf("%w: payment must be a number", service.ErrInvalidInput))
			return
		}
		if v <= 0 {
			writeError(w, fmt.Errorf("%w: payment must be positive", service.ErrInvalidInput))
			return
		}
		payment = v
	}

	result, err := h.service.Project(r.Context(), mux.Vars(r)["id"], payment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(amortization.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", service.ErrInvalidInput, field)
	}
	return date, nil
}
