package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/repository"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/watermark"
)

type SignUsecase interface {
	// AutoPades runs the full signing pipeline for one document:
	// retrieve, stamp, sign, replace. The first failing step aborts the run.
	AutoPades(ctx context.Context, req *entity.SignAutoPadesRequest) (*entity.SignAutoPadesResponse, error)
}

type signUsecase struct {
	config  *config.Config
	dmRepo  repository.DocsMarshalRepository
	psRepo  repository.ProxySignRepository
	stamper watermark.Stamper
	logger  *zap.Logger
}

func NewSignUsecase(
	cfg *config.Config,
	dmRepo repository.DocsMarshalRepository,
	psRepo repository.ProxySignRepository,
	stamper watermark.Stamper,
	logger *zap.Logger,
) SignUsecase {
	return &signUsecase{
		config:  cfg,
		dmRepo:  dmRepo,
		psRepo:  psRepo,
		stamper: stamper,
		logger:  logger,
	}
}

func (u *signUsecase) AutoPades(ctx context.Context, req *entity.SignAutoPadesRequest) (*entity.SignAutoPadesResponse, error) {
	if strings.TrimSpace(req.ObjectID) == "" ||
		strings.TrimSpace(req.Alias) == "" ||
		strings.TrimSpace(req.Pin) == "" {
		return nil, &entity.InvalidInputError{
			Message: "Parametri mancanti: objectId, alias e pin sono obbligatori.",
		}
	}

	u.logger.Info("Starting auto-PAdES pipeline",
		zap.String("object_id", req.ObjectID),
		zap.String("alias", req.Alias),
	)

	// DocsMarshal calls run detached from the request context: once a run
	// starts, an aborted caller must not cut off the store round trips.
	storeCtx := context.Background()

	// 1) Retrieve PDF and filename from DocsMarshal
	doc, err := u.dmRepo.GetDocument(storeCtx, req.ObjectID)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Document retrieved",
		zap.String("object_id", req.ObjectID),
		zap.String("file_name", doc.FileName),
		zap.Int("size", len(doc.Content)),
	)

	// 2) Apply the attribution watermark. An empty NomeMedico is accepted
	// and renders the band with an empty name segment.
	stamped, err := u.stamper.Stamp(doc.Content, req.NomeMedico)
	if err != nil {
		return nil, err
	}

	// 3) Automatic PAdES signature via ProxySign; honors caller cancellation
	signed, err := u.psRepo.SignPadesAuto(ctx, req.Alias, req.Pin, stamped)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Document signed",
		zap.String("object_id", req.ObjectID),
		zap.Int("signed_size", len(signed)),
	)

	// 4) Replace the document on DocsMarshal keeping the same filename
	if err := u.dmRepo.ReplaceDocument(storeCtx, req.ObjectID, signed, u.config.DocsMarshal.RaiseWorkflowEvents); err != nil {
		return nil, err
	}

	u.logger.Info("Pipeline completed",
		zap.String("object_id", req.ObjectID),
	)

	return &entity.SignAutoPadesResponse{
		Success:        true,
		Message:        "Documento firmato e caricato con successo.",
		SignedObjectID: req.ObjectID,
	}, nil
}
