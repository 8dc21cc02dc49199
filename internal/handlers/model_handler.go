package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"modeling-service/internal/models"
	"modeling-service/internal/services"
	"modeling-service/internal/viewer"
)

const InvalidUuidError = "invalid UUID"
const ModelNotFoundError = "model not found"

// ModelHandler defines handlers for generating and managing building models.
type ModelHandler struct {
	Service *services.ModelService
}

// NewModelHandler creates a new ModelHandler with the given ModelService.
func NewModelHandler(service *services.ModelService) *ModelHandler {
	return &ModelHandler{Service: service}
}

// GenerateModel handles POST /models to generate a building model from property data.
// @Summary Generate a building model
// @Description Generates a procedural building model from property dimensions, floor count, and features
// @Tags models
// @Accept json
// @Produce json
// @Param property body models.PropertyRecord true "Property data"
// @Success 201 {object} models.BuildingModelData "Generated model"
// @Failure 400 {object} map[string]interface{} "Invalid property payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models [post]
func (h *ModelHandler) GenerateModel(c *fiber.Ctx) error {
	var property models.PropertyRecord
	if err := c.BodyParser(&property); err != nil {
		logrus.Warnf("Invalid property payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid property payload: " + err.Error(),
		})
	}
	if property.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "property id is required",
		})
	}
	if property.Dimensions.Area < 0 {
		inputErr := &viewer.GenerationInputError{Field: "dimensions.area", Reason: "must be non-negative"}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": inputErr.Error(),
		})
	}

	data, record, err := h.Service.GenerateModel(property)
	if err != nil {
		logrus.Errorf("Model generation failed for property %s: %v", property.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}

	logrus.Infof("Generated model %s (record %s)", data.ID, record.ID)
	c.Set("X-Model-Record-ID", record.ID.String())
	return c.Status(fiber.StatusCreated).JSON(data)
}

// ListModels handles GET /models to retrieve all model metadata.
// @Summary List generated models
// @Description Gets metadata for all generated building models, optionally filtered by property
// @Tags models
// @Accept json
// @Produce json
// @Param propertyId query string false "Filter by property ID"
// @Success 200 {array} models.ModelRecord "List of model records"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models [get]
func (h *ModelHandler) ListModels(c *fiber.Ctx) error {
	var (
		records []models.ModelRecord
		err     error
	)
	if propertyID := c.Query("propertyId"); propertyID != "" {
		records, err = h.Service.ListModelsByProperty(propertyID)
	} else {
		records, err = h.Service.ListModels()
	}
	if err != nil {
		logrus.Errorf("Error listing models: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	return c.JSON(records)
}

// GetModel handles GET /models/:modelId to retrieve a model document.
// @Summary Get a model document
// @Description Returns the full building model document (floors, walls, openings, features)
// @Tags models
// @Accept json
// @Produce json
// @Param modelId path string true "Model ID"
// @Success 200 {object} models.BuildingModelData "Model document"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models/{modelId} [get]
func (h *ModelHandler) GetModel(c *fiber.Ctx) error {
	modelID := c.Params("modelId")

	payload, err := h.Service.GetModelPayload(modelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": true, "message": ModelNotFoundError,
			})
		}
		logrus.Errorf("Error fetching model %s: %v", modelID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/json")
	return c.Status(fiber.StatusOK).Send(payload)
}

// ExportModel handles GET /models/:modelId/export to download the model as OBJ.
// @Summary Export a model as Wavefront OBJ
// @Description Renders the model's 3D scene and returns it as OBJ text; use format=mtl for the material library
// @Tags models
// @Accept json
// @Produce text/plain
// @Param modelId path string true "Model ID"
// @Param format query string false "obj (default) or mtl"
// @Success 200 {string} string "OBJ or MTL document"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models/{modelId}/export [get]
func (h *ModelHandler) ExportModel(c *fiber.Ctx) error {
	modelID := c.Params("modelId")

	obj, mtl, err := h.Service.ExportOBJ(modelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": true, "message": ModelNotFoundError,
			})
		}
		logrus.Errorf("Error exporting model %s: %v", modelID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "text/plain")
	if c.Query("format") == "mtl" {
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+modelID+".mtl\"")
		return c.Status(fiber.StatusOK).Send(mtl)
	}
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+modelID+".obj\"")
	return c.Status(fiber.StatusOK).Send(obj)
}

// ImportModel handles POST /models/import to ingest a model document archive.
// @Summary Import a model from an archive
// @Description Uploads a ZIP or tarball containing a model JSON document and stores it
// @Tags models
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Archive containing one model document"
// @Success 201 {object} models.ModelRecord "Imported model metadata"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models/import [post]
func (h *ModelHandler) ImportModel(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "failed to read file: " + err.Error(),
		})
	}
	logrus.Infof("Importing model archive %s (%d bytes)", fileHeader.Filename, fileHeader.Size)

	record, err := h.Service.ImportModelArchive(fileHeader)
	if err != nil {
		logrus.Warnf("Model import failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// DeleteModel handles DELETE /models/:id to remove a model record and its document.
// @Summary Delete a model
// @Description Deletes a model by record ID (removes the stored document and the metadata row)
// @Tags models
// @Accept json
// @Produce json
// @Param id path string true "Model record ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models/{id} [delete]
func (h *ModelHandler) DeleteModel(c *fiber.Ctx) error {
	idStr := c.Params("id")
	recordID, err := uuid.Parse(idStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidUuidError,
		})
	}
	if err := h.Service.DeleteModel(recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": true, "message": ModelNotFoundError,
			})
		}
		logrus.Errorf("Error deleting model %s: %v", recordID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	logrus.Infof("Deleted model record %s", recordID)
	return c.SendStatus(fiber.StatusNoContent)
}
