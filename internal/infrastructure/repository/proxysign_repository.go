package repository

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/repository"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/httpclient"
)

const signedDocumentFilename = "document.pdf"

type proxySignRepository struct {
	config *config.Config
	client *httpclient.Client
	logger *zap.Logger
}

func NewProxySignRepository(cfg *config.Config, apiLogSaver httpclient.APILogSaver, logger *zap.Logger) repository.ProxySignRepository {
	timeout := cfg.ProxySign.Timeout
	if timeout < config.MinProxySignTimeout {
		timeout = config.MinProxySignTimeout
	}

	return &proxySignRepository{
		config: cfg,
		client: httpclient.New("proxysign", timeout, apiLogSaver, logger),
		logger: logger,
	}
}

func (r *proxySignRepository) SignPadesAuto(ctx context.Context, alias, pin string, pdf []byte) ([]byte, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, &entity.InvalidInputError{Message: "alias mancante"}
	}
	if strings.TrimSpace(pin) == "" {
		return nil, &entity.InvalidInputError{Message: "PIN mancante"}
	}
	if len(pdf) == 0 {
		return nil, &entity.InvalidInputError{Message: "PDF vuoto"}
	}

	path := "/" + r.config.ProxySign.AutoContext + "/sign/pades/" + url.PathEscape(alias)
	fullURL := strings.TrimRight(r.config.ProxySign.BaseURL, "/") + path

	fields := map[string]string{
		"pin": pin,
	}
	if strings.TrimSpace(r.config.ProxySign.Language) != "" {
		fields["LANGUAGE"] = r.config.ProxySign.Language
	}

	files := map[string]httpclient.FileUpload{
		"contentToSign-0": {
			Filename:    signedDocumentFilename,
			ContentType: "application/pdf",
			Content:     pdf,
		},
	}

	r.logger.Info("Submitting PDF for automatic PAdES signature",
		zap.String("alias", alias),
		zap.Int("pdf_size", len(pdf)),
	)

	status, body, err := r.client.PostMultipart(ctx, fullURL, fields, files, "application/pdf, application/xml, */*;q=0.1")
	if err != nil {
		return nil, &entity.SigningUnreachableError{Err: err}
	}

	if status == http.StatusOK {
		// 200 => body is the signed PDF, verbatim
		return body, nil
	}

	gw := parseErrorXML(body)
	gw.HTTPStatus = status

	r.logger.Warn("ProxySign rejected signature request",
		zap.Int("status", status),
		zap.String("error_code", gw.ErrorCode),
		zap.String("proxysign_error_code", gw.ProxySignErrorCode),
	)

	return nil, &entity.SigningRejectedError{Gateway: gw}
}

// errorEnvelope mirrors the ProxySign KO body:
// <response><status>KO</status><error>...</error></response>
type errorEnvelope struct {
	XMLName xml.Name      `xml:"response"`
	Status  string        `xml:"status"`
	Error   errorElements `xml:"error"`
}

type errorElements struct {
	ErrorCode                 string `xml:"error-code"`
	ErrorDescription          string `xml:"error-description"`
	ErrorCodeSignature        string `xml:"error-code-signature"`
	ProxySignErrorCode        string `xml:"proxysign-error-code"`
	ProxySignErrorDescription string `xml:"proxysign-error-description"`
}

// parseErrorXML parses a KO body best-effort. Any parse failure yields a
// GatewayError with every optional field empty; it never returns an error.
func parseErrorXML(body []byte) *entity.GatewayError {
	var envelope errorEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return &entity.GatewayError{}
	}

	return &entity.GatewayError{
		ErrorCode:                 envelope.Error.ErrorCode,
		ErrorDescription:          envelope.Error.ErrorDescription,
		ErrorCodeSignature:        envelope.Error.ErrorCodeSignature,
		ProxySignErrorCode:        envelope.Error.ProxySignErrorCode,
		ProxySignErrorDescription: envelope.Error.ProxySignErrorDescription,
	}
}
