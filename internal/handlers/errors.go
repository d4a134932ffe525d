// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/i18n"
	"github.com/javajoker/solar-catalog/internal/services"
	"github.com/javajoker/solar-catalog/internal/utils"
)

// respondError maps service and engine errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrCatalogNotLoaded):
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyCatalogNotLoaded))
	case errors.Is(err, services.ErrFeedUnavailable):
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyCatalogFeedDisabled))
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "product")
	case errors.Is(err, services.ErrSessionNotFound):
		utils.NotFoundResponse(c, "session")
	case errors.Is(err, services.ErrInvalidQuery):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCatalogInvalidQuery), err.Error())
	case errors.Is(err, services.ErrUnknownGroup):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySessionUnknownGroup), nil)
	case errors.Is(err, catalog.ErrUnknownAction),
		errors.Is(err, catalog.ErrUnknownFacet),
		errors.Is(err, catalog.ErrUnknownFlag):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySessionInvalidAction), err.Error())
	case errors.Is(err, services.ErrDuplicateSKU):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductDuplicateSKU))
	default:
		if validationErrors := utils.GetValidationErrors(err); len(validationErrors) > 0 {
			utils.ValidationErrorResponse(c, validationErrors)
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyError))
	}
}
