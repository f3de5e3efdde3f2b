package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/FaqSearch/internal/adapter"
	"github.com/akolanti/FaqSearch/internal/api"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

type SearchHandler struct {
	service     rag.Service
	defaultTopK int
	logger      *logger_i.Logger
}

func NewSearchHandler(service rag.Service, defaultTopK int) *SearchHandler {
	return &SearchHandler{
		service:     service,
		defaultTopK: defaultTopK,
		logger:      logger_i.NewLogger("SearchHandler"),
	}
}

// Search godoc
// @Summary      Search the FAQ index
// @Description  Embeds the query, runs a similarity search and returns the closest policy passages.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest  true  "Question and optional top_k"
// @Success      200      {array}   api.SearchResultResponse
// @Failure      400      {object}  api.ErrorResponse  "Invalid request"
// @Failure      502      {object}  api.ErrorResponse  "Embedding or index backend failed"
// @Router       /search [post]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		h.logger.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}
	log := h.logger.WithTrace(r.Context())

	var requestData api.SearchRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Error("Couldn't close the search handler reader :", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		log.Warn("Bad Search Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	topK := requestData.TopK
	if topK == 0 {
		topK = h.defaultTopK
	}

	results, err := h.service.Search(r.Context(), requestData.Query, topK)
	if err != nil {
		log.Warn("Search failed", "error", err)
		WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(results), log)
}

// Health godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *SearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "healthy"}, h.logger)
}

// Root godoc
// @Summary      Service info
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.ServiceInfoResponse
// @Router       / [get]
func (h *SearchHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.ServiceInfoResponse{
		Message: "FAQ Search API is running",
		Endpoints: map[string]string{
			"search":  "POST /search",
			"health":  "GET /health",
			"metrics": "GET /metrics",
		},
	}, h.logger)
}
