package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"okinoko_ledger/contract"
	"okinoko_ledger/sdk"
)

// statusFor maps a ledger error class onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, contract.ErrValidation),
		errors.Is(err, sdk.ErrMalformedEnvelope),
		errors.Is(err, sdk.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrUnauthorized),
		errors.Is(err, sdk.ErrInvalidSignature):
		return http.StatusForbidden
	case errors.Is(err, contract.ErrNotFound),
		errors.Is(err, contract.ErrNotInitialized):
		return http.StatusNotFound
	case errors.Is(err, contract.ErrDuplicateRecord),
		errors.Is(err, contract.ErrInvalidState),
		errors.Is(err, contract.ErrExpired):
		return http.StatusConflict
	case errors.Is(err, contract.ErrArithmeticOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"err": err.Error()})
}
