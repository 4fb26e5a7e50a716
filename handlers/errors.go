package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"referral-analytics/analytics"
)

// statusFor: ошибки вызывающего – 400, всё остальное пришло от источника или LLM – 502.
func statusFor(err error) int {
	var parseErr *analytics.ParseError
	var rangeErr *analytics.InvalidRangeError
	var argErr *analytics.InvalidArgumentError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &rangeErr), errors.As(err, &argErr):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
