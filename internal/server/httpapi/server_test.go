package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cds-snc/notification-document-download-api/internal/b64x"
	"github.com/cds-snc/notification-document-download-api/internal/logging"
	"github.com/cds-snc/notification-document-download-api/internal/server/antivirus"
	"github.com/cds-snc/notification-document-download-api/internal/server/config"
	"github.com/cds-snc/notification-document-download-api/internal/server/scanqueue"
	"github.com/cds-snc/notification-document-download-api/internal/server/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testEnv struct {
	router http.Handler
	cfg    *config.Config

	documents   *fakeObjectStore
	scanTargets *fakeObjectStore
	queue       *scanqueue.Queue
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if mutate != nil {
		mutate(cfg)
	}

	documents := newFakeObjectStore()
	scanTargets := newFakeObjectStore()

	var scanner *antivirus.Client
	var queue *scanqueue.Queue
	if cfg.AntivirusAPIHost != "" {
		scanner = antivirus.NewClient(cfg.AntivirusAPIHost, cfg.AntivirusAPIKey)
		queue = scanqueue.New(cfg.ScanWorkers, testLogger())
	}

	srv := NewServer(cfg, testLogger(),
		storage.NewDocumentStore(documents),
		storage.NewScanTargetStore(scanTargets),
		scanner, queue)

	return &testEnv{
		router:      srv.routes(),
		cfg:         cfg,
		documents:   documents,
		scanTargets: scanTargets,
		queue:       queue,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// uploadRequest builds an authenticated multipart upload with a "document"
// part plus any extra form fields.
func uploadRequest(t *testing.T, serviceID uuid.UUID, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", "document")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/services/"+serviceID.String()+"/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer auth-token")
	return req
}

type uploadResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Document struct {
		ID            uuid.UUID `json:"id"`
		DirectFileURL string    `json:"direct_file_url"`
		URL           string    `json:"url"`
		Filename      *string   `json:"filename"`
		SendingMethod *string   `json:"sending_method"`
		MimeType      string    `json:"mime_type"`
		FileSize      int64     `json:"file_size"`
		FileExtension *string   `json:"file_extension"`
	} `json:"document"`
}

func decodeUpload(t *testing.T, rr *httptest.ResponseRecorder) uploadResponse {
	t.Helper()
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// decryptionKey extracts the key query parameter from an upload response URL.
func decryptionKey(t *testing.T, rawURL string) []byte {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	key, err := b64x.Base64ToBytes(u.Query().Get("key"))
	require.NoError(t, err)
	return key
}

// mustUpload uploads content and returns the document ID and decryption key.
func mustUpload(t *testing.T, env *testEnv, serviceID uuid.UUID, content []byte, fields map[string]string) (uuid.UUID, []byte) {
	t.Helper()
	rr := env.do(uploadRequest(t, serviceID, content, fields))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decodeUpload(t, rr)
	return resp.Document.ID, decryptionKey(t, resp.Document.DirectFileURL)
}
