package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/haoyun/jobflow/api/http/presenter"
	"github.com/haoyun/jobflow/pkg/tracker"
)

// ViewHandler serves read-only "view mode": anyone can inspect another user's
// pipeline by email. Reads here go through ListByEmail, which never applies
// the stale-screening sweep and never writes.
type ViewHandler struct {
	uc tracker.UseCase
}

func NewViewHandler(uc tracker.UseCase) *ViewHandler { return &ViewHandler{uc: uc} }

// List returns the applications owned by the given email.
// @Summary View another user's applications
// @Tags    view
// @Produce json
// @Param   email query string true "owner email"
// @Success 200 {array} applicationResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /view/applications [get]
func (h *ViewHandler) List(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return presenter.Error(c, http.StatusBadRequest, "email is required")
	}
	limit, offset := parseLimitOffset(c, 100)
	apps, err := h.uc.ListByEmail(c.Context(), email, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "storage error")
	}
	return presenter.JSON(c, http.StatusOK, toApplicationResponses(apps))
}
