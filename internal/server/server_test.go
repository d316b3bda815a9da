package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream answers MTS for numbers ending in 1, Beeline for 2, 404 otherwise
func newUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		num := r.URL.Query().Get("num")
		var op string
		switch num[len(num)-1] {
		case '1':
			op = "MTS"
		case '2':
			op = "Beeline"
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(model.LookupRecord{FullNum: num, Operator: op, Region: "Moscow"})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestServer(t *testing.T) (*Server, *atomic.Int32) {
	t.Helper()
	upstream, hits := newUpstream(t)

	cfg := model.DefaultConfig()
	cfg.API.BaseURL = upstream.URL
	cfg.Batch.Delay = time.Millisecond
	cfg.Cache.Enabled = false

	notices := notify.NewCollector()
	client, err := pipeline.NewClient(cfg, notices, nil)
	require.NoError(t, err)
	svc := pipeline.NewService(cfg, client, notices, nil)

	return New(cfg.Server, svc, notices, nil), hits
}

func doJSON(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLookup(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/lookup", `{"number":"+7 (912) 345-67-81"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[lookupResponse](t, rec)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "MTS", resp.Record.Operator)
	assert.Equal(t, "79123456781", resp.Record.FullNum)
	assert.Empty(t, resp.Notices)
}

func TestLookup_ValidatorGate(t *testing.T) {
	s, hits := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/lookup", `{"number":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 10 digits")
	assert.Zero(t, hits.Load(), "short number must not reach the remote service")
}

func TestLookup_RemoteError(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/lookup", `{"number":"79123456780"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decode[lookupResponse](t, rec)
	assert.Equal(t, "API error: 404", resp.Error)
	require.Len(t, resp.Notices, 1)
	assert.Equal(t, notify.LevelError, resp.Notices[0].Level)
	assert.Equal(t, "API error: 404", resp.Notices[0].Message)
}

func TestLookup_BadPayload(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/lookup", `{"number":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch_Numbers(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"numbers":["79120000001","12345","79120000002","79120000001","79120000000"]}`
	rec := doJSON(t, s, http.MethodPost, "/api/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[batchResponse](t, rec)
	assert.Len(t, resp.Records, 3)
	assert.Equal(t, 2, resp.Failed)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, []summaryEntry{
		{Operator: "MTS", Count: 2, Share: 67},
		{Operator: "Beeline", Count: 1, Share: 33},
	}, resp.Summary)

	warnings := 0
	for _, n := range resp.Notices {
		if n.Level == notify.LevelWarning {
			warnings++
			assert.Equal(t, "failed to process 2 number(s)", n.Message)
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestBatch_Text(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/batch", `{"text":"tel 79120000001\n\n79120000002\n"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[batchResponse](t, rec)
	assert.Len(t, resp.Records, 2)
	assert.Zero(t, resp.Failed)
	assert.Empty(t, resp.Notices)
}

func TestBatch_Empty(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/batch", `{"text":"  \n "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmission_Busy(t *testing.T) {
	s, hits := newTestServer(t)

	s.busy.Lock()
	defer s.busy.Unlock()

	rec := doJSON(t, s, http.MethodPost, "/api/batch", `{"numbers":["79120000001","79120000002"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, hits.Load())
}

func upload(t *testing.T, s *Server, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	s, _ := newTestServer(t)

	rec := upload(t, s, "numbers.txt", "79120000001\r\n79120000002\r\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[batchResponse](t, rec)
	assert.Len(t, resp.Records, 2)
	assert.Equal(t, 2, resp.Total)
}

func TestUpload_NotText(t *testing.T) {
	s, hits := newTestServer(t)

	rec := upload(t, s, "numbers.csv", "79120000001\n")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, hits.Load())
}

func TestUpload_MissingFile(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/upload", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"records":[{"operator":"Tele2"},{"operator":"MTS"},{"operator":"MTS"},{"operator":"MTS"}]}`
	rec := doJSON(t, s, http.MethodPost, "/api/summary", body)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[summaryResponse](t, rec)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, []summaryEntry{
		{Operator: "MTS", Count: 3, Share: 75},
		{Operator: "Tele2", Count: 1, Share: 25},
	}, resp.Summary)
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"records":[{"operator":"MTS"},{"operator":"Beeline"},{"operator":"MTS"}]}`
	rec := doJSON(t, s, http.MethodPost, "/api/export?format=csv&scope=summary", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="operator-summary.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "operator,count\nMTS,2\nBeeline,1", rec.Body.String())
}

func TestExport_Records(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"records":[{"code":"912","num":"3456789","full_num":"79123456789","operator":"MTS","region":"Moscow"}]}`
	rec := doJSON(t, s, http.MethodPost, "/api/export?format=json", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "phone-numbers-data.json")
	assert.JSONEq(t, `[{"code":"912","num":"3456789","full_num":"79123456789","operator":"MTS","region":"Moscow"}]`, rec.Body.String())
}

func TestExport_BadRequest(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/export?format=xml", `{"records":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/export?scope=everything", `{"records":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_NoData(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{"/api/export?format=csv", "/api/export?format=json&scope=summary"} {
		rec := doJSON(t, s, http.MethodPost, target, `{"records":[]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
		assert.Empty(t, rec.Header().Get("Content-Disposition"), target)
		assert.Equal(t, "no data to export", decode[errorResponse](t, rec).Error, target)
	}
}

func TestBodyLimit(t *testing.T) {
	assert.Equal(t, "5184K", bodyLimit(5<<20))
	assert.Equal(t, "5184K", bodyLimit(0))
	assert.Equal(t, "1088K", bodyLimit(1<<20))
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
