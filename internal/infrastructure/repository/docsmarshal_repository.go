package repository

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/repository"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/httpclient"
)

const (
	getDocumentPath = "/DMDocuments/GetProfileDocumentByObjectIdFieldExternalId"
	setDocumentPath = "/DMDocuments/SetProfileDocument"
)

type docsMarshalRepository struct {
	config *config.Config
	client *httpclient.Client
	logger *zap.Logger
}

func NewDocsMarshalRepository(cfg *config.Config, apiLogSaver httpclient.APILogSaver, logger *zap.Logger) repository.DocsMarshalRepository {
	return &docsMarshalRepository{
		config: cfg,
		client: httpclient.New("docsmarshal", cfg.DocsMarshal.Timeout, apiLogSaver, logger),
		logger: logger,
	}
}

func (r *docsMarshalRepository) GetDocument(ctx context.Context, objectID string) (*entity.DocumentPayload, error) {
	req := &entity.DMGetByExternalIDRequest{
		SessionID:       r.config.DocsMarshal.SessionID,
		ObjectID:        objectID,
		FieldExternalID: r.config.DocsMarshal.InputFieldExternalID,
	}

	var resp entity.DMGetByExternalIDResponse
	url := strings.TrimRight(r.config.DocsMarshal.BaseURL, "/") + getDocumentPath
	if err := r.client.PostJSON(ctx, url, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", objectID, err)
	}

	// The store must explicitly report no error AND carry a document body;
	// a clean error flag alone is not enough.
	if resp.Result.HasError || resp.Result.Document == nil || resp.Result.Document.FileBase64Content == "" {
		r.logger.Warn("DocsMarshal returned no usable document",
			zap.String("object_id", objectID),
			zap.Bool("has_error", resp.Result.HasError),
			zap.String("store_error", resp.Result.Error),
		)
		return nil, entity.ErrDocumentMissing
	}

	content, err := base64.StdEncoding.DecodeString(resp.Result.Document.FileBase64Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s content: %w", objectID, err)
	}

	return &entity.DocumentPayload{
		FileName: resp.Result.Document.FileName,
		Content:  content,
	}, nil
}

func (r *docsMarshalRepository) SetProfileDocument(ctx context.Context, objectID string, payload *entity.DocumentPayload, raiseEvents bool) error {
	req := &entity.DMSetProfileDocumentRequest{
		SessionID:           r.config.DocsMarshal.SessionID,
		ObjectID:            objectID,
		FileName:            payload.FileName,
		FileContentBase64:   base64.StdEncoding.EncodeToString(payload.Content),
		FieldExternalID:     r.config.DocsMarshal.WriteFieldExternalID(),
		RaiseWorkflowEvents: raiseEvents,
	}

	var resp entity.DMSetProfileDocumentResponse
	url := strings.TrimRight(r.config.DocsMarshal.BaseURL, "/") + setDocumentPath
	if err := r.client.PostJSON(ctx, url, req, &resp); err != nil {
		return fmt.Errorf("failed to set document %s: %w", objectID, err)
	}

	if resp.HasError {
		return &entity.UploadError{Reason: resp.Error}
	}

	return nil
}

func (r *docsMarshalRepository) ReplaceDocument(ctx context.Context, objectID string, newPDF []byte, raiseEvents bool) error {
	existing, err := r.GetDocument(ctx, objectID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(existing.FileName) == "" {
		return entity.ErrDocumentMissing
	}

	r.logger.Info("Replacing document content",
		zap.String("object_id", objectID),
		zap.String("file_name", existing.FileName),
		zap.Int("new_size", len(newPDF)),
	)

	return r.SetProfileDocument(ctx, objectID, &entity.DocumentPayload{
		FileName: existing.FileName,
		Content:  newPDF,
	}, raiseEvents)
}
