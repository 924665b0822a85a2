package images

import (
	"context"
	"strconv"

	"docindex/config"
	"docindex/internal/database"
	"docindex/internal/database/model"
	"docindex/pkg/apperror"
	"docindex/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

type imagesResponse struct {
	Images []model.ImageAsset `json:"images"`
}

// HandleList returns the images extracted from a document together with
// their generated alt text.
func HandleList(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	docID, err := strconv.ParseInt(c.Params("docID"), 10, 64)
	if err != nil {
		return apperror.BadRequest(config.ModuleVision, c, status.MissingParams, "invalid docID")
	}

	if _, err := database.GetEntityByID[model.Document](context.Background(), docID); err != nil {
		return apperror.BadRequest(config.ModuleVision, c, status.MissingParams, "unknown document")
	}

	db, err := database.GetDB()
	if err != nil {
		return apperror.InternalError(config.ModuleVision, c, err)
	}
	var assets []model.ImageAsset
	if err := db.Where("document_id = ?", docID).Order("page_index, name").Find(&assets).Error; err != nil {
		return apperror.InternalError(config.ModuleVision, c, err)
	}

	return apperror.Success(config.ModuleVision, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "images ok",
		TrackingID: trackingID,
		Data:       imagesResponse{Images: assets},
	})
}
