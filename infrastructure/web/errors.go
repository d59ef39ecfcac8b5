package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is an error body with its status code.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"-"`
}

// NewError builds a 500 error response.
func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Status: http.StatusInternalServerError}
}

func NewErrorWithStatus(msg string, status int) ErrorResponse {
	return ErrorResponse{Error: msg, Status: status}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}
