package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"modeling-service/internal/services"
)

// CacheHandler exposes the model payload cache for inspection and maintenance.
type CacheHandler struct {
	Cache *services.CacheService
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(cache *services.CacheService) *CacheHandler {
	return &CacheHandler{Cache: cache}
}

// Statistics handles GET /cache/stats to report per-layer cache statistics.
// @Summary Cache statistics
// @Description Reports hit rates and sizes for each payload cache layer
// @Tags cache
// @Accept json
// @Produce json
// @Success 200 {array} cache.LayerStats "Per-layer statistics"
// @Router /cache/stats [get]
func (h *CacheHandler) Statistics(c *fiber.Ctx) error {
	return c.JSON(h.Cache.Statistics())
}

// Clear handles DELETE /cache to empty all cache layers.
// @Summary Clear the payload cache
// @Description Empties every cache layer; subsequent reads repopulate from object storage
// @Tags cache
// @Accept json
// @Produce json
// @Success 204 "No Content"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /cache [delete]
func (h *CacheHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cache.Clear(); err != nil {
		logrus.Errorf("Cache clear failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
	logrus.Info("Payload cache cleared")
	return c.SendStatus(fiber.StatusNoContent)
}
