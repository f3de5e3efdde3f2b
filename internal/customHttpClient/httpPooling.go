package customHttpClient

import (
	"net/http"

	"github.com/akolanti/FaqSearch/internal/config"
)

// NewPooledClient builds the http.Client handed to the outbound SDKs
// (genai, openai) so they reuse connections instead of redialing per call.
func NewPooledClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        config.MaxIdleConns,
			MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			IdleConnTimeout:     config.IdleConnTimeout,
		},
	}
}
