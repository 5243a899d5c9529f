package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"gobioact/internal/errors"

	"github.com/go-chi/render"
)

// ErrResponse is the JSON error body
type ErrResponse struct {
	HTTPStatusCode int    `json:"-"`
	Code           string `json:"code"`
	Stage          string `json:"stage,omitempty"`
	Message        string `json:"message"`
}

// Render implements render.Renderer
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// errInvalidRequest reports an unreadable or invalid request body
func errInvalidRequest(err error) *ErrResponse {
	return errFromAppError(errors.InvalidInput(err.Error()))
}

// errFromAppError maps an error chain to a status code by its error code
func errFromAppError(err error) *ErrResponse {
	code := errors.CodeFor(err)
	status := http.StatusInternalServerError
	switch {
	case code == errors.CodeConfigInvalid, code == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case code == errors.CodeNotFound:
		status = http.StatusNotFound
	case code == errors.CodeExternalService:
		status = http.StatusBadGateway
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	return &ErrResponse{
		HTTPStatusCode: status,
		Code:           code,
		Stage:          errors.GetStage(err),
		Message:        err.Error(),
	}
}
