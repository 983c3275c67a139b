package http

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
)

type Handlers struct {
	Projection *ProjectionHandler
	Liability  *LiabilityHandler
	Portfolio  *PortfolioHandler
}

// NewRouter wires every endpoint. Calculation endpoints share the rate
// limiter; reads of stored liabilities do not.
func NewRouter(h Handlers, limiter *RateLimiter, allowedOrigins []string) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	standardMiddleware := alice.New(recoverPanic, logRequest, cors)
	limited := alice.New(limiter.Middleware)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", health).Methods(http.MethodGet)

	r.Handle("/projection", limited.ThenFunc(h.Projection.Project)).Methods(http.MethodPost)
	r.Handle("/projection/validate", limited.ThenFunc(h.Projection.ValidatePayment)).Methods(http.MethodPost)

	r.Handle("/liabilities", limited.ThenFunc(h.Liability.Create)).Methods(http.MethodPost)
	r.HandleFunc("/liabilities", h.Liability.List).Methods(http.MethodGet)
	r.HandleFunc("/liabilities/{id}", h.Liability.Get).Methods(http.MethodGet)
	r.Handle("/liabilities/{id}/transactions", limited.ThenFunc(h.Liability.AddTransaction)).Methods(http.MethodPost)
	r.Handle("/liabilities/{id}/projection", limited.ThenFunc(h.Liability.Project)).Methods(http.MethodGet)

	r.Handle("/portfolio/payoff-plan", limited.ThenFunc(h.Portfolio.PlanPayoff)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return standardMiddleware.Then(r)
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
