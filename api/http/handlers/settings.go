package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/haoyun/jobflow/api/http/presenter"
	"github.com/haoyun/jobflow/pkg/settings"
)

type SettingsHandler struct {
	uc settings.UseCase
}

func NewSettingsHandler(uc settings.UseCase) *SettingsHandler { return &SettingsHandler{uc: uc} }

type settingsPayload struct {
	DefaultStages []string `json:"defaultStages"`
	LastViewEmail string   `json:"lastViewEmail"`
}

// Get returns the user's tracker preferences, falling back to the built-in
// default pipeline.
// @Summary Get settings
// @Tags    settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} settingsPayload
// @Router  /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	s, err := h.uc.Get(c.Context(), owner.ID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "storage error")
	}
	return presenter.JSON(c, http.StatusOK, settingsPayload{
		DefaultStages: s.DefaultStages,
		LastViewEmail: s.LastViewEmail,
	})
}

// Save stores the user's tracker preferences.
// @Summary Save settings
// @Tags    settings
// @Accept  json
// @Produce json
// @Param   input body settingsPayload true "settings payload"
// @Security BearerAuth
// @Success 200 {object} settingsPayload
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /settings [put]
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	var req settingsPayload
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	saved, err := h.uc.Save(c.Context(), owner.ID, settings.Settings{
		DefaultStages: req.DefaultStages,
		LastViewEmail: req.LastViewEmail,
	})
	if err != nil {
		if errors.Is(err, settings.ErrNoStages) {
			return presenter.Error(c, http.StatusBadRequest, "default stages must not be empty")
		}
		return presenter.Error(c, http.StatusInternalServerError, "storage error")
	}
	return presenter.JSON(c, http.StatusOK, settingsPayload{
		DefaultStages: saved.DefaultStages,
		LastViewEmail: saved.LastViewEmail,
	})
}
