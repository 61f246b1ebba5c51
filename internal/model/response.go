package model

// ErrorResponse defines error response structure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ListResponse wraps a list of items.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// NewListResponse creates a list response.
func NewListResponse[T any](data []T) *ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &ListResponse[T]{Data: data, Total: len(data)}
}
