package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zoo/animals"
	"zoo/i18n"
	"zoo/middleware"
	"zoo/models"
)

// statusFor maps business error kinds onto HTTP status codes.
func statusFor(kind animals.Kind) int {
	switch kind {
	case animals.KindAnimalNotFound, animals.KindSearchNotFound:
		return http.StatusNotFound
	case animals.KindInvalidNameFormat,
		animals.KindDuplicateName,
		animals.KindInvalidSortParameter,
		animals.KindInvalidDate,
		animals.KindInvalidID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a localized ErrorResponse and aborts the chain.
// Errors that are not business errors become 500 without leaking details.
func writeError(c *gin.Context, bundle *i18n.Bundle, err error) {
	lang := middleware.GetLanguage(c, bundle.DefaultLang())
	_ = c.Error(err)

	var appErr *animals.Error
	if !errors.As(err, &appErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   bundle.T(lang, "error.InternalError"),
			Message: bundle.T(lang, "internal"),
		})
		return
	}

	c.AbortWithStatusJSON(statusFor(appErr.Kind), models.ErrorResponse{
		Error:   bundle.T(lang, "error."+appErr.Kind.String()),
		Message: bundle.T(lang, appErr.Reason, appErr.Args...),
	})
}

func writeBadRequest(c *gin.Context, bundle *i18n.Bundle, err error) {
	lang := middleware.GetLanguage(c, bundle.DefaultLang())
	_ = c.Error(err)

	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   bundle.T(lang, "error.BadRequest"),
		Message: bundle.T(lang, "request.invalid"),
	})
}
