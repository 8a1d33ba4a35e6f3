package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/usecase"
)

type SignHandler struct {
	usecase usecase.SignUsecase
	logger  *zap.Logger
}

func NewSignHandler(usecase usecase.SignUsecase, logger *zap.Logger) *SignHandler {
	return &SignHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// AutoPades handles POST /api/sign/auto-pades and maps every pipeline
// failure to the uniform {success, message, signedObjectId} shape.
func (h *SignHandler) AutoPades(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req entity.SignAutoPadesRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(&entity.SignAutoPadesResponse{
			Success: false,
			Message: "Corpo della richiesta non valido.",
		})
	}

	result, err := h.usecase.AutoPades(ctx, &req)
	if err != nil {
		return h.writeError(c, &req, err)
	}

	return c.JSON(result)
}

func (h *SignHandler) writeError(c *fiber.Ctx, req *entity.SignAutoPadesRequest, err error) error {
	var (
		invalidErr  *entity.InvalidInputError
		rejectedErr *entity.SigningRejectedError
	)

	switch {
	case errors.As(err, &invalidErr):
		return c.Status(fiber.StatusBadRequest).JSON(&entity.SignAutoPadesResponse{
			Success: false,
			Message: invalidErr.Message,
		})

	case errors.Is(err, entity.ErrDocumentMissing):
		h.logger.Warn("Document not found",
			zap.String("object_id", req.ObjectID),
		)
		return c.Status(fiber.StatusNotFound).JSON(&entity.SignAutoPadesResponse{
			Success: false,
			Message: "Documento non trovato in DocsMarshal.",
		})

	case errors.As(err, &rejectedErr):
		h.logger.Warn("ProxySign rejected the request",
			zap.String("object_id", req.ObjectID),
			zap.Int("gateway_status", rejectedErr.Gateway.HTTPStatus),
		)
		// The gateway's own status code is surfaced to the caller
		return c.Status(rejectedErr.Gateway.HTTPStatus).JSON(&entity.SignAutoPadesResponse{
			Success: false,
			Message: "Errore ProxySign: " + rejectedErr.Error(),
		})

	default:
		h.logger.Error("Pipeline failed",
			zap.String("object_id", req.ObjectID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(&entity.SignAutoPadesResponse{
			Success: false,
			Message: "Errore interno: " + err.Error(),
		})
	}
}
