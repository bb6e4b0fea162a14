package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	httpecho "github.com/mohammadpnp/directory-import/internal/interfaces/http/echo"
)

const testJobID = "4955eb4d-c7f2-42f6-80ca-33838ce37c31"

type fakeImporter struct {
	output   app.JobOutput
	err      error
	got      app.ImportRequest
	canceled bool
}

func (f *fakeImporter) Start(ctx context.Context, req app.ImportRequest) (app.JobOutput, error) {
	f.got = req
	if f.err != nil {
		return app.JobOutput{}, f.err
	}
	return f.output, nil
}

func (f *fakeImporter) Cancel(jobID string) bool {
	return f.canceled
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	return got
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body, ok := decodeResponse(t, rec)["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error payload, got %s", rec.Body.String())
	}
	code, _ := body["code"].(string)
	return code
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportHandlerAccepted(t *testing.T) {
	t.Parallel()

	e := echo.New()
	importer := &fakeImporter{output: app.JobOutput{ID: testJobID, Status: string(domain.StatusImporting)}}
	httpecho.RegisterRoutes(e, nil, httpecho.NewImportHandler(importer), nil)

	rec := postJSON(e, "/api/v1/directory-imports/"+testJobID+"/import",
		`{"record_ids":["a","b"],"enrich":true,"session_id":"s-1"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if importer.got.JobID != testJobID || len(importer.got.RecordIDs) != 2 || !importer.got.Enrich || importer.got.SessionID != "s-1" {
		t.Fatalf("unexpected import request: %+v", importer.got)
	}

	data, ok := decodeResponse(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %s", rec.Body.String())
	}
	if data["status"] != "importing" {
		t.Fatalf("unexpected status: %#v", data["status"])
	}
}

func TestImportHandlerBadJSON(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, httpecho.NewImportHandler(&fakeImporter{}), nil)

	rec := postJSON(e, "/api/v1/directory-imports/"+testJobID+"/import", `{"record_ids":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no session", app.ErrNoActiveSession, http.StatusConflict, "no_active_session"},
		{"stale session", app.ErrStaleSession, http.StatusConflict, "stale_session"},
		{"selection", app.ErrSelectionNotInBuffer, http.StatusBadRequest, "invalid_selection"},
		{"illegal", &domain.IllegalTransitionError{JobID: testJobID, From: domain.StatusCompleted, To: domain.StatusImporting}, http.StatusConflict, "illegal_transition"},
		{"busy", app.ErrImportInProgress, http.StatusConflict, "illegal_transition"},
		{"not found", app.ErrImportJobNotFound, http.StatusNotFound, "not_found"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			httpecho.RegisterRoutes(e, nil, httpecho.NewImportHandler(&fakeImporter{err: tc.err}), nil)

			rec := postJSON(e, "/api/v1/directory-imports/"+testJobID+"/import", `{"record_ids":["a"]}`)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if code := errorCode(t, rec); code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, code)
			}
		})
	}
}

func TestImportHandlerCancel(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, httpecho.NewImportHandler(&fakeImporter{canceled: true}), nil)

	rec := postJSON(e, "/api/v1/directory-imports/"+testJobID+"/cancel", ``)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	e = echo.New()
	httpecho.RegisterRoutes(e, nil, httpecho.NewImportHandler(&fakeImporter{}), nil)

	rec = postJSON(e, "/api/v1/directory-imports/"+testJobID+"/cancel", ``)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 when nothing runs, got %d", rec.Code)
	}
}
