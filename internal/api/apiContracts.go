package api

type SearchResultResponse struct {
	Score   float64 `json:"score" example:"0.9312"`
	Source  string  `json:"source" example:"refund-policy.pdf"`
	Content string  `json:"content"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"query must not be empty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

type ServiceInfoResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// requests---------------------

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k,omitempty"`
}
