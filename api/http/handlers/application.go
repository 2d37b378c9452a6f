package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/haoyun/jobflow/api/http/presenter"
	"github.com/haoyun/jobflow/pkg/settings"
	"github.com/haoyun/jobflow/pkg/tracker"
)

type ApplicationHandler struct {
	uc       tracker.UseCase
	settings settings.UseCase
}

func NewApplicationHandler(uc tracker.UseCase, settings settings.UseCase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, settings: settings}
}

// applicationRequest mirrors the SPA's in-memory job shape: camelCase fields,
// epoch-millisecond numbers, stageDates keyed by stage index.
type applicationRequest struct {
	Company            string              `json:"company"`
	Position           string              `json:"position"`
	JobType            string              `json:"jobType"`
	WorkLocation       string              `json:"workLocation"`
	Compensation       string              `json:"compensation"`
	Notes              string              `json:"notes"`
	Tags               []string            `json:"tags"`
	Stages             []string            `json:"stages"`
	CurrentStageIndex  int                 `json:"currentStageIndex"`
	CurrentStageStatus tracker.StageStatus `json:"currentStageStatus"`
	StageDates         map[int]int64       `json:"stageDates"`
}

type applicationResponse struct {
	ID                 string              `json:"id"`
	Company            string              `json:"company"`
	Position           string              `json:"position"`
	JobType            string              `json:"jobType"`
	WorkLocation       string              `json:"workLocation,omitempty"`
	Compensation       string              `json:"compensation,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	Tags               []string            `json:"tags"`
	Stages             []string            `json:"stages"`
	CurrentStageIndex  int                 `json:"currentStageIndex"`
	CurrentStageStatus tracker.StageStatus `json:"currentStageStatus"`
	StageDates         map[int]int64       `json:"stageDates"`
	CreatedAt          int64               `json:"createdAt"`
	UpdatedAt          int64               `json:"updatedAt"`
}

func toApplicationResponse(app tracker.Application) applicationResponse {
	return applicationResponse{
		ID:                 app.ID.String(),
		Company:            app.Company,
		Position:           app.Position,
		JobType:            string(app.JobType),
		WorkLocation:       app.WorkLocation,
		Compensation:       app.Compensation,
		Notes:              app.Notes,
		Tags:               app.Tags,
		Stages:             app.Stages,
		CurrentStageIndex:  app.CurrentStageIndex,
		CurrentStageStatus: app.CurrentStageStatus,
		StageDates:         app.StageDates,
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
}

func toApplicationResponses(apps []tracker.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return out
}

func toInput(req applicationRequest) tracker.Input {
	return tracker.Input{
		Company:            req.Company,
		Position:           req.Position,
		JobType:            tracker.JobType(req.JobType),
		WorkLocation:       req.WorkLocation,
		Compensation:       req.Compensation,
		Notes:              req.Notes,
		Tags:               req.Tags,
		Stages:             req.Stages,
		CurrentStageIndex:  req.CurrentStageIndex,
		CurrentStageStatus: req.CurrentStageStatus,
		StageDates:         req.StageDates,
	}
}

func trackerError(c *fiber.Ctx, err error) error {
	var verr tracker.ErrValidation
	switch {
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, tracker.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "application not found")
	default:
		return presenter.Error(c, http.StatusInternalServerError, "storage error")
	}
}

// Create records a new application at the first pipeline stage.
// @Summary Create application
// @Tags    applications
// @Accept  json
// @Produce json
// @Param   input body applicationRequest true "application payload"
// @Security BearerAuth
// @Success 201 {object} applicationResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	var req applicationRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	in := toInput(req)
	if len(in.Stages) == 0 {
		// New applications without an explicit pipeline use the owner's
		// configured default.
		if prefs, err := h.settings.Get(c.Context(), owner.ID); err == nil {
			in.Stages = prefs.DefaultStages
		}
	}
	app, err := h.uc.Create(c.Context(), owner, in)
	if err != nil {
		return trackerError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toApplicationResponse(app))
}

// List returns the owner's applications, newest first. Stale screenings are
// auto-rejected as part of the read.
// @Summary List applications
// @Tags    applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} applicationResponse
// @Router  /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	limit, offset := parseLimitOffset(c, 100)
	apps, err := h.uc.ListForOwner(c.Context(), owner.ID, limit, offset)
	if err != nil {
		return trackerError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toApplicationResponses(apps))
}

// Get returns one application by id.
// @Summary Get application
// @Tags    applications
// @Produce json
// @Param   id path string true "application ID (UUID)"
// @Security BearerAuth
// @Success 200 {object} applicationResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	app, err := h.uc.Get(c.Context(), owner.ID, id)
	if err != nil {
		return trackerError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toApplicationResponse(app))
}

// Update replaces the editable fields of an application.
// @Summary Update application
// @Tags    applications
// @Accept  json
// @Produce json
// @Param   id path string true "application ID (UUID)"
// @Param   input body applicationRequest true "application payload"
// @Security BearerAuth
// @Success 200 {object} applicationResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id} [put]
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	var req applicationRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	app, err := h.uc.Update(c.Context(), owner.ID, id, toInput(req))
	if err != nil {
		return trackerError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toApplicationResponse(app))
}

// Delete removes an application permanently.
// @Summary Delete application
// @Tags    applications
// @Param   id path string true "application ID (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	if err := h.uc.Delete(c.Context(), owner.ID, id); err != nil {
		return trackerError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

type advanceRequest struct {
	TargetIndex int `json:"targetIndex"`
}

// AdvanceStage applies a pipeline click: cycle the current stage's status or
// jump to another stage.
// @Summary Advance pipeline stage
// @Tags    applications
// @Accept  json
// @Produce json
// @Param   id path string true "application ID (UUID)"
// @Param   input body advanceRequest true "target stage index"
// @Security BearerAuth
// @Success 200 {object} applicationResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id}/stage [put]
func (h *ApplicationHandler) AdvanceStage(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	var req advanceRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	app, err := h.uc.AdvanceStage(c.Context(), owner.ID, id, req.TargetIndex)
	if err != nil {
		return trackerError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toApplicationResponse(app))
}

// Stats returns the dashboard counters.
// @Summary Application statistics
// @Tags    applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tracker.Stats
// @Router  /applications/stats [get]
func (h *ApplicationHandler) Stats(c *fiber.Ctx) error {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "cannot resolve user")
	}
	st, err := h.uc.Stats(c.Context(), owner.ID)
	if err != nil {
		return trackerError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, st)
}
