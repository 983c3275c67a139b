package http

import (
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog/log"
)

// Middleware rejects clients that ran out of tokens with 429 and a
// Retry-After header in whole seconds.
func (r *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {

		ip, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			ip = req.RemoteAddr
		}

		allowed, retryAfter := r.Allow(ip)
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, req)
	})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}

func recoverPanic(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(next)
}

func logRequest(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Info().
			Str("method", p.Request.Method).
			Str("path", p.URL.Path).
			Int("status", p.StatusCode).
			Int("size", p.Size).
			Dur("duration", time.Since(p.TimeStamp)).
			Msg("request")
	})
}
