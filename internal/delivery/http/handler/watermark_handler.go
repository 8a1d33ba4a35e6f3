package handler

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/watermark"
)

// WatermarkHandler exposes the stamp step on its own for manual testing
// against sample documents.
type WatermarkHandler struct {
	stamper watermark.Stamper
	logger  *zap.Logger
}

func NewWatermarkHandler(stamper watermark.Stamper, logger *zap.Logger) *WatermarkHandler {
	return &WatermarkHandler{
		stamper: stamper,
		logger:  logger,
	}
}

// Create handles POST /api/watermark/crea: stamps the supplied base64 PDF
// and returns the stamped document as base64.
func (h *WatermarkHandler) Create(c *fiber.Ctx) error {
	var req entity.WatermarkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(&entity.WatermarkResponse{
			Success: false,
			Message: "Corpo della richiesta non valido.",
		})
	}

	if strings.TrimSpace(req.Nome) == "" || strings.TrimSpace(req.FileBase64) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(&entity.WatermarkResponse{
			Success: false,
			Message: "Nome e fileBase64 sono obbligatori.",
		})
	}

	pdf, err := base64.StdEncoding.DecodeString(req.FileBase64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(&entity.WatermarkResponse{
			Success: false,
			Message: "fileBase64 non è base64 valido.",
		})
	}

	stamped, err := h.stamper.Stamp(pdf, req.Nome)
	if err != nil {
		h.logger.Error("Watermark failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(&entity.WatermarkResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	return c.JSON(&entity.WatermarkResponse{
		Success:    true,
		FileBase64: base64.StdEncoding.EncodeToString(stamped),
	})
}
