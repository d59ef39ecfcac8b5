package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// NoResponse is returned by handlers that already wrote to the ResponseWriter.
type NoResponse struct{}

func (NoResponse) Encode() ([]byte, string, error) { return nil, "", nil }

// NoContent answers 204 with an empty body.
type NoContent struct{}

func NewNoContent() NoContent { return NoContent{} }

func (NoContent) Encode() ([]byte, string, error) { return nil, "", nil }

func (NoContent) HTTPStatus() int { return http.StatusNoContent }

// JSONResponse encodes Data as JSON. A zero Status means 200.
type JSONResponse[T any] struct {
	Data   T
	Status int
}

func (j *JSONResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(j.Data)
	if err != nil {
		return nil, "", err
	}
	return data, "application/json; charset=utf-8", nil
}

func (j *JSONResponse[T]) HTTPStatus() int {
	if j.Status == 0 {
		return http.StatusOK
	}
	return j.Status
}

func NewJSONResponseWithStatus[T any](data T, status int) *JSONResponse[T] {
	return &JSONResponse[T]{Data: data, Status: status}
}

// statusOf picks the status code for resp: its own HTTPStatus when it has one,
// 500 for bare errors and 204 for nil.
func statusOf(resp Encoder) int {
	if resp == nil {
		return http.StatusNoContent
	}
	if s, ok := resp.(interface{ HTTPStatus() int }); ok {
		return s.HTTPStatus()
	}
	if _, ok := resp.(error); ok {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// Respond writes resp to w. Nothing is written once the client has gone away.
func Respond(ctx context.Context, w http.ResponseWriter, resp Encoder) error {
	if _, ok := resp.(NoResponse); ok {
		return nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return errors.New("client disconnected, do not send response")
	}

	status := statusOf(resp)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return nil
	}

	data, contentType, err := resp.Encode()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return fmt.Errorf("respond: encode: %w", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("respond: write: %w", err)
	}
	return nil
}
