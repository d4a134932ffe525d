// internal/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/i18n"
	"github.com/javajoker/solar-catalog/internal/services"
	"github.com/javajoker/solar-catalog/internal/utils"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

type DispatchRequest struct {
	Actions []catalog.Action `json:"actions" binding:"required,min=1"`
}

type SearchRequest struct {
	Search string `json:"search"`
}

type SortRequest struct {
	Sort catalog.SortKey `json:"sort" binding:"required"`
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// POST /v1/catalog/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	view, err := h.sessionService.Create(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, view)
}

// GET /v1/catalog/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// POST /v1/catalog/sessions/:id/actions
func (h *SessionHandler) Dispatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "actions"), err.Error())
		return
	}

	view, err := h.sessionService.Dispatch(c.Param("id"), req.Actions)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// PUT /v1/catalog/sessions/:id/search
func (h *SessionHandler) SetSearch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "search"), err.Error())
		return
	}

	view, err := h.sessionService.SetSearch(c.Param("id"), req.Search)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// PUT /v1/catalog/sessions/:id/sort
func (h *SessionHandler) SetSort(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "sort"), err.Error())
		return
	}

	view, err := h.sessionService.SetSort(c.Param("id"), catalog.ParseSortKey(string(req.Sort)))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// POST /v1/catalog/sessions/:id/clear
func (h *SessionHandler) Clear(c *gin.Context) {
	view, err := h.sessionService.Clear(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// POST /v1/catalog/sessions/:id/groups/:group/toggle
func (h *SessionHandler) ToggleGroup(c *gin.Context) {
	view, err := h.sessionService.ToggleGroup(c.Param("id"), catalog.Group(c.Param("group")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// DELETE /v1/catalog/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.sessionService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeySessionDeleted)})
}
