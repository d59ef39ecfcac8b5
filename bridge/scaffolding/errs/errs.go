// Package errs provides the error type returned by bridge handlers. An Error
// is an Encoder, so handlers return it directly as their response.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode is an application error category.
type ErrCode struct {
	value  int
	name   string
	status int
}

// Value returns the numeric code.
func (c ErrCode) Value() int {
	return c.value
}

// String returns the code name.
func (c ErrCode) String() string {
	return c.name
}

// Set of known error codes.
var (
	OK                 = ErrCode{value: 0, name: "ok", status: http.StatusOK}
	InvalidArgument    = ErrCode{value: 3, name: "invalid_argument", status: http.StatusBadRequest}
	NotFound           = ErrCode{value: 5, name: "not_found", status: http.StatusNotFound}
	AlreadyExists      = ErrCode{value: 6, name: "already_exists", status: http.StatusConflict}
	FailedPrecondition = ErrCode{value: 9, name: "failed_precondition", status: http.StatusConflict}
	Unimplemented      = ErrCode{value: 12, name: "unimplemented", status: http.StatusNotImplemented}
	Internal           = ErrCode{value: 13, name: "internal", status: http.StatusInternalServerError}
	InternalOnlyLog    = ErrCode{value: 17, name: "internal_only_log", status: http.StatusInternalServerError}
)

// Error is the error returned to clients. FuncName and FileName record
// where it was created and are only logged.
type Error struct {
	Code     ErrCode `json:"-"`
	Message  string  `json:"message"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New wraps err under code, recording the caller.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf builds an error from a format string, recording the caller.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the web.Encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    e.Code.String(),
		Message: e.Message,
	})
	return data, "application/json", err
}

// HTTPStatus implements the web status interface.
func (e *Error) HTTPStatus() int {
	return e.Code.status
}

// IsError reports whether err is or wraps an *Error.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}
