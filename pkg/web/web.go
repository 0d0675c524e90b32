// Package web defines common components for a web application.
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns human readable suffix for a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "uuid", "uuid4":
		return " must be a valid uuid"
	case "money":
		return " must be a positive amount with at most 2 decimal places"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	}

	return " is invalid"
}

// BindingErrorMsg turns a request binding error into a client message.
func BindingErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + GetErrorMsg(field)
	}

	return "invalid request body"
}

// StatusCode maps the kind of err to the HTTP status code.
func StatusCode(err error) int {
	switch errorspkg.Kind(err) {
	case errorspkg.ErrValidation, errorspkg.ErrInsufficientFunds:
		return http.StatusBadRequest
	case errorspkg.ErrNotFound:
		return http.StatusNotFound
	case errorspkg.ErrForbidden:
		return http.StatusForbidden
	case errorspkg.ErrBusy:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// RespondError writes err as a json response with the status matching its kind.
//
// Storage and internal failures never expose their message.
func RespondError(gctx *gin.Context, err error) {
	status := StatusCode(err)

	switch status {
	case http.StatusServiceUnavailable:
		gctx.Header("Retry-After", "1")
	case http.StatusInternalServerError:
		gctx.JSON(status, Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(status, Error(err))
}
