package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

const (
	maxBodyLogLength = 500 // Maximum characters to log for body
)

// APILogSaver persists outbound-call audit entries.
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

// FileUpload represents one file part of a multipart request.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Client is the outbound HTTP plumbing shared by the DocsMarshal and
// ProxySign repositories. It is not bound to a base URL; callers pass full
// URLs because the two backends live on different hosts.
type Client struct {
	backend     string
	client      *http.Client
	apiLogSaver APILogSaver
	logger      *zap.Logger
}

func New(backend string, timeout time.Duration, apiLogSaver APILogSaver, logger *zap.Logger) *Client {
	return &Client{
		backend: backend,
		client: &http.Client{
			Timeout: timeout,
		},
		apiLogSaver: apiLogSaver,
		logger:      logger,
	}
}

// truncateString truncates a string if it exceeds maxLength
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// truncateBase64InJSON truncates base64-like values in a JSON string so that
// document content never floods the log.
func truncateBase64InJSON(jsonStr string, maxLength int) string {
	base64Pattern := regexp.MustCompile(`"([A-Za-z0-9+/=]{100,})"`)

	return base64Pattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		content := match[1 : len(match)-1]
		if len(content) > maxLength {
			return fmt.Sprintf(`"%s... [base64 truncated, total %d chars]"`, content[:maxLength], len(content))
		}
		return match
	})
}

func (c *Client) logRequest(method, url string, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [WEBCLIENT-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Backend: %s\n", c.backend))
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))

	if len(body) > 0 {
		bodyStr := truncateBase64InJSON(string(body), 100)
		bodyStr = truncateString(bodyStr, maxBodyLogLength)
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", bodyStr))
	}

	c.logger.Info(logBuilder.String())
}

func (c *Client) logResponse(statusCode int, statusText string, duration time.Duration, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [WEBCLIENT-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("Backend: %s\n", c.backend))
	logBuilder.WriteString(fmt.Sprintf("Status: %d %s\n", statusCode, statusText))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))

	bodyStr := truncateBase64InJSON(string(body), 100)
	bodyStr = truncateString(bodyStr, maxBodyLogLength)
	logBuilder.WriteString(fmt.Sprintf("Body: %s\n", bodyStr))

	c.logger.Info(logBuilder.String())
}

// saveAPILog records endpoint/status/duration of one outbound call. Bodies
// are never persisted.
func (c *Client) saveAPILog(method, endpoint string, statusCode int, duration time.Duration) {
	if c.apiLogSaver == nil {
		return
	}

	apiLog := &entity.APILog{
		Backend:    c.backend,
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: statusCode,
		Duration:   duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}

	// Save asynchronously to not block the request
	go func() {
		if err := c.apiLogSaver.Save(context.Background(), apiLog); err != nil {
			c.logger.Warn("Failed to save API log",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
	}()
}

// PostJSON sends a JSON POST and unmarshals the JSON response into result.
// Non-2xx responses are returned as errors carrying the body text.
func (c *Client) PostJSON(ctx context.Context, url string, body interface{}, result interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logRequest(http.MethodPost, url, jsonBody)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logResponse(resp.StatusCode, resp.Status, duration, respBody)
	c.saveAPILog(http.MethodPost, url, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, truncateString(string(respBody), maxBodyLogLength))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// PostMultipart sends a multipart/form-data POST and returns the raw status
// and body. The caller decides how to interpret non-2xx responses, so no
// error is synthesized from the status code.
func (c *Client) PostMultipart(ctx context.Context, url string, fields map[string]string, files map[string]FileUpload, accept string) (int, []byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return 0, nil, fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	for fieldName, file := range files {
		part, err := createFormFile(writer, fieldName, file)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to create form file %s: %w", fieldName, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return 0, nil, fmt.Errorf("failed to write file content %s: %w", fieldName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return 0, nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	// Multipart bodies carry raw PDFs; log a summary instead
	var bodySummary strings.Builder
	bodySummary.WriteString("{fields: [")
	fieldKeys := make([]string, 0, len(fields))
	for k := range fields {
		fieldKeys = append(fieldKeys, k)
	}
	bodySummary.WriteString(strings.Join(fieldKeys, ", "))
	bodySummary.WriteString("], files: [")
	fileKeys := make([]string, 0, len(files))
	for k, f := range files {
		fileKeys = append(fileKeys, fmt.Sprintf("%s(%s, %d bytes)", k, f.Filename, len(f.Content)))
	}
	bodySummary.WriteString(strings.Join(fileKeys, ", "))
	bodySummary.WriteString("]}")

	c.logRequest(http.MethodPost, url, []byte(bodySummary.String()))

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		// Body is a binary artifact on 200; keep it out of the log
		c.logResponse(resp.StatusCode, resp.Status, duration, []byte(fmt.Sprintf("[binary, %d bytes]", len(respBody))))
	} else {
		c.logResponse(resp.StatusCode, resp.Status, duration, respBody)
	}
	c.saveAPILog(http.MethodPost, url, resp.StatusCode, duration)

	return resp.StatusCode, respBody, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createFormFile is multipart.Writer.CreateFormFile with an explicit part
// content type instead of the default application/octet-stream.
func createFormFile(w *multipart.Writer, fieldName string, file FileUpload) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(fieldName), quoteEscaper.Replace(file.Filename)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}
