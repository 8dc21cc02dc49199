package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"modeling-service/internal/services"
	"modeling-service/internal/viewer"
)

const SessionNotFoundError = "session not found"

// SessionHandler defines handlers for viewer session lifecycle and commands.
type SessionHandler struct {
	Sessions *services.SessionService
	Models   *services.ModelService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *services.SessionService, models *services.ModelService) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Models: models}
}

type createSessionRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type loadModelRequest struct {
	ModelID string `json:"modelId"`
	URL     string `json:"url"`
}

type commandRequest struct {
	Command string `json:"command"`
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type environmentRequest struct {
	Name string `json:"name"`
}

// CreateSession handles POST /sessions to open a new viewer session.
// @Summary Open a viewer session
// @Description Creates a 3D viewer session sized to the client viewport
// @Tags sessions
// @Accept json
// @Produce json
// @Param viewport body createSessionRequest true "Viewport size"
// @Success 201 {object} map[string]interface{} "Session ID and state"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid session request: " + err.Error(),
		})
	}
	if req.Width <= 0 || req.Height <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "viewport width and height must be positive",
		})
	}

	id, err := h.Sessions.CreateSession(req.Width, req.Height)
	if err != nil {
		logrus.Errorf("Session creation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sessionId": id.String(),
		"state":     viewer.StateReady,
	})
}

// GetSession handles GET /sessions/:id to inspect a session.
// @Summary Inspect a viewer session
// @Description Returns the session state and a camera snapshot
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Session state and camera"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	state, camera, err := h.Sessions.Describe(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": true, "message": SessionNotFoundError,
		})
	}
	return c.JSON(fiber.Map{
		"sessionId": id.String(),
		"state":     state,
		"camera":    camera,
	})
}

// LoadModel handles POST /sessions/:id/model to display a model in the session.
// @Summary Load a model into a session
// @Description Loads a stored model by ID, or fetches a model document from a URL
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body loadModelRequest true "Model reference (modelId or url)"
// @Success 200 {object} map[string]interface{} "Session state after load"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Session or model not found"
// @Failure 409 {object} map[string]interface{} "Session cannot load in its current state"
// @Failure 502 {object} map[string]interface{} "Model fetch failed"
// @Router /sessions/{id}/model [post]
func (h *SessionHandler) LoadModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	var req loadModelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid load request: " + err.Error(),
		})
	}

	switch {
	case req.ModelID != "":
		data, err := h.Models.GetModelData(req.ModelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": true, "message": ModelNotFoundError,
				})
			}
			logrus.Errorf("Error fetching model %s for session %s: %v", req.ModelID, id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": true, "message": err.Error(),
			})
		}
		err = h.Sessions.LoadModel(id, data)
		return h.loadResult(c, id, err)
	case req.URL != "":
		err = h.Sessions.LoadModelFromURL(c.Context(), id, req.URL)
		return h.loadResult(c, id, err)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "either modelId or url is required",
		})
	}
}

func (h *SessionHandler) loadResult(c *fiber.Ctx, id uuid.UUID, err error) error {
	if err == nil {
		state, camera, _ := h.Sessions.Describe(id)
		return c.JSON(fiber.Map{
			"sessionId": id.String(),
			"state":     state,
			"camera":    camera,
		})
	}

	var stateErr *viewer.SessionStateError
	var loadErr *viewer.ModelLoadError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": true, "message": SessionNotFoundError,
		})
	case errors.As(err, &stateErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	case errors.As(err, &loadErr):
		logrus.Warnf("Model load failed for session %s: %v", id, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
}

// Command handles POST /sessions/:id/commands for camera and display commands.
// @Summary Send a session command
// @Description Dispatches zoom-in, zoom-out, center, wireframe, or a view-* mode change
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body commandRequest true "Command"
// @Success 200 {object} map[string]interface{} "Camera after the command"
// @Failure 400 {object} map[string]interface{} "Unknown command"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Failure 409 {object} map[string]interface{} "Session cannot accept commands in its current state"
// @Router /sessions/{id}/commands [post]
func (h *SessionHandler) Command(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	var req commandRequest
	if err := c.BodyParser(&req); err != nil || req.Command == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "command is required",
		})
	}

	if err := h.Sessions.Command(id, req.Command); err != nil {
		var stateErr *viewer.SessionStateError
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": true, "message": SessionNotFoundError,
			})
		case errors.As(err, &stateErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": true, "message": err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": true, "message": err.Error(),
			})
		}
	}

	state, camera, _ := h.Sessions.Describe(id)
	return c.JSON(fiber.Map{
		"sessionId": id.String(),
		"state":     state,
		"camera":    camera,
	})
}

// Resize handles POST /sessions/:id/resize to track container size changes.
// @Summary Resize a session viewport
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body resizeRequest true "New viewport size"
// @Success 200 {object} map[string]interface{} "Acknowledgement"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{id}/resize [post]
func (h *SessionHandler) Resize(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	var req resizeRequest
	if err := c.BodyParser(&req); err != nil || req.Width <= 0 || req.Height <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "viewport width and height must be positive",
		})
	}
	if err := h.Sessions.Resize(id, req.Width, req.Height); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": true, "message": SessionNotFoundError,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"sessionId": id.String(), "width": req.Width, "height": req.Height})
}

// LoadEnvironment handles POST /sessions/:id/environment to apply a preset.
// @Summary Apply an environment preset
// @Description Applies a named environment preset; missing presets fall back to a flat background
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body environmentRequest true "Preset name"
// @Success 200 {object} map[string]interface{} "Acknowledgement"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /sessions/{id}/environment [post]
func (h *SessionHandler) LoadEnvironment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	var req environmentRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "preset name is required",
		})
	}
	if err := h.Sessions.LoadEnvironment(c.Context(), id, req.Name); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": true, "message": SessionNotFoundError,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"sessionId": id.String(), "environment": req.Name})
}

// CloseSession handles DELETE /sessions/:id to dispose a session.
// @Summary Close a viewer session
// @Description Disposes the session's rendering resources; closing twice is harmless
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	h.Sessions.CloseSession(id)
	return c.SendStatus(fiber.StatusNoContent)
}
