package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/FaqSearch/internal/adapter/utils"
	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/handlers"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	if req == nil {
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(`X-Trace-Id`, trace)
	re.req = req.WithContext(ctx)

	return re
}

// applyCors answers preflights and stamps the allow headers for listed
// origins. An empty allow-list means cross-origin access stays off.
func (c *Chain) applyCors(re requestResponseStruct) requestResponseStruct {
	origin := re.req.Header.Get("Origin")
	if origin != "" && c.originAllowed(origin) {
		header := re.writer.Header()
		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, X-Trace-Id")
	}

	if re.req.Method == http.MethodOptions {
		re.writer.WriteHeader(http.StatusNoContent)
		re.handled = true
	}
	return re
}

func (c *Chain) originAllowed(origin string) bool {
	for _, allowed := range c.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (c *Chain) rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !c.limiter.GetLimiter(ip).Allow() {
		re.logger.Error("Too many requests", "Rate Limiter exceeded", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded. Slow down bruh",
		}
		return re
	}
	return re
}

func handleBadRequest(re requestResponseStruct) {
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage)
}
