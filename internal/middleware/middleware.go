package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/metrics"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	handled    bool //preflight answered, skip the handler
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Chain carries the per-deployment knobs so nothing here reads globals.
type Chain struct {
	allowedOrigins []string
	limiter        *IPRateLimiter
	logger         *logger_i.Logger
}

func New(cfg *config.Config) *Chain {
	return &Chain{
		allowedOrigins: cfg.CorsAllowedOrigins,
		limiter:        NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		logger:         logger_i.NewLogger("middleware"),
	}
}

func (c *Chain) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := c.processRequest(requestResponseStruct{req: r, writer: rec})

		switch {
		case re.badRequest.isBadRequest:
			handleBadRequest(re)
		case re.handled:
			//preflight, nothing left to do
		default:
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func (c *Chain) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = c.logger
	re.logger.Debug("New request received", "path", re.req.URL.Path)

	re = injectTrace(re)
	re = c.applyCors(re)
	if re.handled {
		return re
	}
	re = c.rateLimiter(re)
	return re
}
