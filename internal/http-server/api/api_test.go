package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BeautyGenius/entity"
	"BeautyGenius/impl/core"
	"BeautyGenius/internal/config"
	"BeautyGenius/internal/lib/fileurl"
	"BeautyGenius/internal/service/catalog"
	"BeautyGenius/internal/service/imagecheck"
	"BeautyGenius/internal/theme"
	"BeautyGenius/internal/workflow"
	"BeautyGenius/internal/ws"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type instantAnalyzer struct{}

func (instantAnalyzer) Analyze(_ context.Context, _ *entity.Image) (entity.Analysis, error) {
	return entity.Analysis{SkinType: entity.SkinCombination, ConfidenceScore: 0.85, AgeEstimate: 30}, nil
}

type testServer struct {
	*httptest.Server
	core *core.Core
}

func newTestServer(t *testing.T, apiKey string) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	conf := &config.Config{}
	conf.Upload.MaxSizeMB = 5
	conf.Listen.ApiKey = apiKey

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	c := core.New(log)
	c.SetAnalyzer(instantAnalyzer{})
	c.SetCatalog(catalog.New(log))
	c.SetImageChecker(imagecheck.New(conf.Upload.MaxSizeMB))
	c.SetPublisher(hub)
	c.SetLinkSigner(fileurl.NewSigner("test-secret", time.Minute))
	c.SetDefaultTheme(theme.Classic)
	c.SetWorkflowOptions(workflow.Options{Clock: clock.NewMock()})
	hub.SetHandler(c)

	srv := httptest.NewServer(New(conf, log, c, hub).Handler())
	t.Cleanup(func() {
		srv.Close()
		c.Shutdown()
		cancel()
	})
	return &testServer{Server: srv, core: c}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, header http.Header) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+"/api/v1"+path, body)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *testServer) open(t *testing.T) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/workflows", nil, nil)
	require.Equal(t, http.StatusCreated, status)
	var snap workflow.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func decodeSnapshot(t *testing.T, env envelope) workflow.Snapshot {
	t.Helper()
	require.True(t, env.Success, env.Error)
	var snap workflow.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	return snap
}

func multipartBody(t *testing.T, field, name string, data []byte) (io.Reader, http.Header) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, http.Header{"Content-Type": {mw.FormDataContentType()}}
}

func TestOpenAndGetWorkflow(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	status, env := s.do(t, http.MethodGet, "/workflows/"+id, nil, nil)
	require.Equal(t, http.StatusOK, status)
	snap := decodeSnapshot(t, env)
	assert.Equal(t, workflow.StepWelcome, snap.CurrentStep)
	assert.Equal(t, workflow.DefaultAge, snap.UserAge)
}

func TestUnknownWorkflowIsNotFound(t *testing.T) {
	s := newTestServer(t, "")

	status, env := s.do(t, http.MethodGet, "/workflows/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Workflow not found", env.Error)

	status, _ = s.do(t, http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNextHonoursGate(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	status, env := s.do(t, http.MethodPost, "/workflows/"+id+"/next", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.StepImageUpload, decodeSnapshot(t, env).CurrentStep)

	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/next", nil, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/next?force=maybe", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(t, http.MethodPost, "/workflows/"+id+"/next?force=true", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.StepAgeInput, decodeSnapshot(t, env).CurrentStep)

	status, env = s.do(t, http.MethodPost, "/workflows/"+id+"/back", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.StepImageUpload, decodeSnapshot(t, env).CurrentStep)
}

func TestRetryReturnsToUpload(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	for i := 0; i < 4; i++ {
		status, _ := s.do(t, http.MethodPost, "/workflows/"+id+"/next?force=true", nil, nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := s.do(t, http.MethodPost, "/workflows/"+id+"/age", strings.NewReader(`{"age":47}`), nil)
	require.Equal(t, http.StatusOK, status)

	status, env := s.do(t, http.MethodPost, "/workflows/"+id+"/retry", nil, nil)
	require.Equal(t, http.StatusOK, status)
	snap := decodeSnapshot(t, env)
	assert.Equal(t, workflow.StepImageUpload, snap.CurrentStep)
	assert.Equal(t, workflow.StatusIdle, snap.Status)
	assert.Equal(t, 47, snap.UserAge)

	status, _ = s.do(t, http.MethodPost, "/workflows/missing/retry", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAgeEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	status, env := s.do(t, http.MethodPost, "/workflows/"+id+"/age", strings.NewReader(`{"age":150}`), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.MaxAge, decodeSnapshot(t, env).UserAge)

	status, env = s.do(t, http.MethodPost, "/workflows/"+id+"/age/dec", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.MaxAge-1, decodeSnapshot(t, env).UserAge)

	status, env = s.do(t, http.MethodPost, "/workflows/"+id+"/age/inc", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.MaxAge, decodeSnapshot(t, env).UserAge)

	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/age", strings.NewReader(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/age", strings.NewReader(`not json`), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSkinTypeEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	status, env := s.do(t, http.MethodPost, "/workflows/"+id+"/skin-type", strings.NewReader(`{"skin_type":"oily"}`), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.SkinOily, decodeSnapshot(t, env).SkinType)

	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/skin-type", strings.NewReader(`{"skin_type":"scaly"}`), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	data := make([]byte, 4096)
	copy(data, jpegHeader)
	body, header := multipartBody(t, "file", "face.jpg", data)
	status, env := s.do(t, http.MethodPost, "/workflows/"+id+"/image", body, header)
	require.Equal(t, http.StatusOK, status)
	snap := decodeSnapshot(t, env)
	assert.Equal(t, workflow.StatusUploading, snap.Status)
	require.NotNil(t, snap.Image)
	assert.Equal(t, "image/jpeg", snap.Image.ContentType)
	assert.Equal(t, int64(4096), snap.Image.Size)

	body, header = multipartBody(t, "file", "notes.txt", []byte("just text"))
	status, env = s.do(t, http.MethodPost, "/workflows/"+id+"/image", body, header)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "unsupported")

	big := make([]byte, 5<<20+10)
	copy(big, jpegHeader)
	body, header = multipartBody(t, "file", "huge.jpg", big)
	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/image", body, header)
	assert.Equal(t, http.StatusBadRequest, status)

	body, header = multipartBody(t, "photo", "face.jpg", data)
	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/image", body, header)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestImagePreviewLink(t *testing.T) {
	s := newTestServer(t, "secret-key")
	auth := http.Header{"Authorization": {"Bearer secret-key"}}

	status, env := s.do(t, http.MethodPost, "/workflows", nil, auth)
	require.Equal(t, http.StatusCreated, status)
	id := decodeSnapshot(t, env).ID

	data := make([]byte, 1024)
	copy(data, jpegHeader)
	body, header := multipartBody(t, "file", "face.jpg", data)
	header.Set("Authorization", "Bearer secret-key")
	status, _ = s.do(t, http.MethodPost, "/workflows/"+id+"/image", body, header)
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodGet, "/workflows/"+id+"/view", nil, auth)
	require.Equal(t, http.StatusOK, status)
	var view theme.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.NotNil(t, view.Image)
	require.NotEmpty(t, view.Image.URL)

	// no API key: the signature is the authorization
	resp, err := s.Client().Get(s.URL + view.Image.URL)
	require.NoError(t, err)
	got, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, data, got)

	resp, err = s.Client().Get(s.URL + core.ImagePath(id, view.Image.ID) + "?expires=9999999999&sig=forged")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnalysisWithoutImageConflicts(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	status, _ := s.do(t, http.MethodPost, "/workflows/"+id+"/analysis", nil, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestViewPicksThemeFromLanguage(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	status, env := s.do(t, http.MethodGet, "/workflows/"+id+"/view", nil, http.Header{"Accept-Language": {"ja-JP,ja;q=0.9"}})
	require.Equal(t, http.StatusOK, status)
	var view theme.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, theme.Sakura, view.Theme)
	assert.Equal(t, "ようこそ", view.StepLabel)

	status, env = s.do(t, http.MethodGet, "/workflows/"+id+"/view?theme=classic", nil, http.Header{"Accept-Language": {"ja"}})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, theme.Classic, view.Theme)
}

func TestCloseAndDelete(t *testing.T) {
	s := newTestServer(t, "")

	id := s.open(t)
	status, _ := s.do(t, http.MethodPost, "/workflows/"+id+"/close", nil, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodGet, "/workflows/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	id = s.open(t)
	status, _ = s.do(t, http.MethodDelete, "/workflows/"+id, nil, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodDelete, "/workflows/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, "")

	status, env := s.do(t, http.MethodGet, "/products", nil, nil)
	require.Equal(t, http.StatusOK, status)
	var all []entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, len(catalog.Defaults()))

	status, env = s.do(t, http.MethodGet, "/products?skin_type=dry", nil, nil)
	require.Equal(t, http.StatusOK, status)
	var dry []entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &dry))
	assert.NotEmpty(t, dry)
	assert.Less(t, len(dry), len(all))
	for _, p := range dry {
		assert.True(t, p.Suits(entity.SkinDry), p.Name)
	}

	status, _ = s.do(t, http.MethodGet, "/products?skin_type=scaly", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	s.open(t)

	status, env := s.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, status)
	var h core.Health
	require.NoError(t, json.Unmarshal(env.Data, &h))
	assert.True(t, h.Ok)
	assert.Equal(t, 1, h.OpenWorkflows)
}

func TestApiKeyRequired(t *testing.T) {
	s := newTestServer(t, "secret-key")

	status, _ := s.do(t, http.MethodPost, "/workflows", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodPost, "/workflows", nil, http.Header{"Authorization": {"Bearer secret-key"}})
	assert.Equal(t, http.StatusCreated, status)
}

func TestWebsocketStreamsThemedViews(t *testing.T) {
	s := newTestServer(t, "")
	id := s.open(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/api/v1/workflows/" + id + "/ws?theme=sakura"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readView := func() (string, theme.View) {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		var event struct {
			Type string     `json:"type"`
			Data theme.View `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&event))
		return event.Type, event.Data
	}

	typ, view := readView()
	assert.Equal(t, ws.EventSnapshot, typ)
	assert.Equal(t, theme.Sakura, view.Theme)
	assert.Equal(t, id, view.WorkflowID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"set_age","data":{"age":47}}`)))
	_, view = readView()
	assert.Equal(t, 47, view.Age.Value)

	status, _ := s.do(t, http.MethodPost, "/workflows/"+id+"/next", nil, nil)
	require.Equal(t, http.StatusOK, status)
	_, view = readView()
	assert.Equal(t, workflow.StepImageUpload, view.Step)
}
