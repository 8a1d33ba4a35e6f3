package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

func newDMConfig(baseURL string) *config.Config {
	return &config.Config{
		DocsMarshal: config.DocsMarshalConfig{
			BaseURL:              baseURL,
			SessionID:            "session-1",
			InputFieldExternalID: "REFERTO",
			Timeout:              5 * time.Second,
		},
	}
}

// fakeStore mimics the two DMDocuments endpoints with one in-memory slot.
type fakeStore struct {
	fileName string
	content  []byte
	hasError bool
	errText  string

	getCalls int
	setCalls int
	lastSet  entity.DMSetProfileDocumentRequest
	setError string
}

func (s *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/DMDocuments/GetProfileDocumentByObjectIdFieldExternalId", func(w http.ResponseWriter, r *http.Request) {
		s.getCalls++

		resp := entity.DMGetByExternalIDResponse{}
		if s.hasError {
			resp.Result.HasError = true
			resp.Result.Error = s.errText
		} else if s.fileName != "" {
			resp.Result.Document = &entity.DMGetDocumentMinimal{
				FileName:          s.fileName,
				FileBase64Content: base64.StdEncoding.EncodeToString(s.content),
			}
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/DMDocuments/SetProfileDocument", func(w http.ResponseWriter, r *http.Request) {
		s.setCalls++
		json.NewDecoder(r.Body).Decode(&s.lastSet)

		resp := entity.DMSetProfileDocumentResponse{}
		if s.setError != "" {
			resp.HasError = true
			resp.Error = s.setError
		} else {
			s.fileName = s.lastSet.FileName
			s.content, _ = base64.StdEncoding.DecodeString(s.lastSet.FileContentBase64)
		}
		json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func TestGetDocument(t *testing.T) {
	store := &fakeStore{fileName: "referto.pdf", content: []byte("%PDF-1.4 content")}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	repo := NewDocsMarshalRepository(newDMConfig(srv.URL), nil, zap.NewNop())

	doc, err := repo.GetDocument(context.Background(), "OBJ1")
	require.NoError(t, err)
	assert.Equal(t, "referto.pdf", doc.FileName)
	assert.Equal(t, []byte("%PDF-1.4 content"), doc.Content)
}

func TestGetDocumentStoreError(t *testing.T) {
	store := &fakeStore{hasError: true, errText: "oggetto inesistente"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	repo := NewDocsMarshalRepository(newDMConfig(srv.URL), nil, zap.NewNop())

	_, err := repo.GetDocument(context.Background(), "OBJ1")
	assert.ErrorIs(t, err, entity.ErrDocumentMissing)
}

func TestGetDocumentNoBody(t *testing.T) {
	// No error flag but also no document body: still missing
	store := &fakeStore{}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	repo := NewDocsMarshalRepository(newDMConfig(srv.URL), nil, zap.NewNop())

	_, err := repo.GetDocument(context.Background(), "OBJ1")
	assert.ErrorIs(t, err, entity.ErrDocumentMissing)
}

func TestSetProfileDocumentUsesWriteSelectorFallback(t *testing.T) {
	store := &fakeStore{}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	cfg := newDMConfig(srv.URL)
	repo := NewDocsMarshalRepository(cfg, nil, zap.NewNop())

	err := repo.SetProfileDocument(context.Background(), "OBJ1", &entity.DocumentPayload{
		FileName: "referto.pdf",
		Content:  []byte("new"),
	}, true)
	require.NoError(t, err)

	// No output selector configured: writes fall back to the input selector
	assert.Equal(t, "REFERTO", store.lastSet.FieldExternalID)
	assert.Equal(t, "session-1", store.lastSet.SessionID)
	assert.True(t, store.lastSet.RaiseWorkflowEvents)
}

func TestSetProfileDocumentDistinctWriteSelector(t *testing.T) {
	store := &fakeStore{}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	cfg := newDMConfig(srv.URL)
	cfg.DocsMarshal.OutputFieldExternalID = "REFERTO_FIRMATO"
	repo := NewDocsMarshalRepository(cfg, nil, zap.NewNop())

	err := repo.SetProfileDocument(context.Background(), "OBJ1", &entity.DocumentPayload{
		FileName: "referto.pdf",
		Content:  []byte("new"),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "REFERTO_FIRMATO", store.lastSet.FieldExternalID)
	assert.False(t, store.lastSet.RaiseWorkflowEvents)
}

func TestSetProfileDocumentUploadError(t *testing.T) {
	store := &fakeStore{setError: "quota superata"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	repo := NewDocsMarshalRepository(newDMConfig(srv.URL), nil, zap.NewNop())

	err := repo.SetProfileDocument(context.Background(), "OBJ1", &entity.DocumentPayload{
		FileName: "referto.pdf",
		Content:  []byte("new"),
	}, true)

	var uploadErr *entity.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "quota superata", uploadErr.Reason)
}

func TestReplaceDocumentPreservesFileName(t *testing.T) {
	store := &fakeStore{fileName: "referto.pdf", content: []byte("original")}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	repo := NewDocsMarshalRepository(newDMConfig(srv.URL), nil, zap.NewNop())

	err := repo.ReplaceDocument(context.Background(), "OBJ1", []byte("signed bytes"), true)
	require.NoError(t, err)
	assert.Equal(t, "referto.pdf", store.lastSet.FileName)

	// A second retrieve yields the same filename with the new content
	doc, err := repo.GetDocument(context.Background(), "OBJ1")
	require.NoError(t, err)
	assert.Equal(t, "referto.pdf", doc.FileName)
	assert.Equal(t, []byte("signed bytes"), doc.Content)
}

func TestReplaceDocumentMissing(t *testing.T) {
	store := &fakeStore{hasError: true, errText: "non trovato"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()

	repo := NewDocsMarshalRepository(newDMConfig(srv.URL), nil, zap.NewNop())

	err := repo.ReplaceDocument(context.Background(), "OBJ1", []byte("signed"), true)
	assert.ErrorIs(t, err, entity.ErrDocumentMissing)
	assert.Zero(t, store.setCalls)
}
