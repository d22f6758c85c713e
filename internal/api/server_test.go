package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strucdoc/strata/internal/config"
)

const manualMarkdown = `# Operations Manual

## Startup Sequence

Check the fuel level before ignition.

Verify the control panel shows green across the board.

Log the start time in the shift book.
`

func newTestServer(apiKey string) *Server {
	cfg := config.Default()
	cfg.Server.APIKey = apiKey
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, log, nil)
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

type outlineResponse struct {
	Title   string `json:"title"`
	Outline []struct {
		Text  string `json:"text"`
		Level int    `json:"level"`
		Page  int    `json:"page"`
	} `json:"outline"`
}

func TestHealthz(t *testing.T) {
	s := newTestServer("")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected ok status, got %v", body["status"])
	}
}

func TestOutlineMultipart(t *testing.T) {
	s := newTestServer("")
	body, contentType := multipartBody(t, "manual.md", manualMarkdown)

	req := httptest.NewRequest(http.MethodPost, "/v1/outline", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out outlineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Expected outline JSON: %v", err)
	}
	if out.Title != "Operations Manual" {
		t.Errorf("Expected title, got %q", out.Title)
	}
	if len(out.Outline) != 1 || out.Outline[0].Text != "Startup Sequence" || out.Outline[0].Level != 2 {
		t.Errorf("Unexpected outline: %+v", out.Outline)
	}
	if got := rec.Header().Get(ConditionsHeader); got != "none" {
		t.Errorf("Expected no conditions, got %q", got)
	}
}

func TestOutlineRawBody(t *testing.T) {
	s := newTestServer("")
	req := httptest.NewRequest(http.MethodPost, "/v1/outline?filename=manual.md",
		strings.NewReader(manualMarkdown))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out outlineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Expected outline JSON: %v", err)
	}
	if out.Title != "Operations Manual" {
		t.Errorf("Expected title, got %q", out.Title)
	}
}

func TestOutlineEmptyDocumentCondition(t *testing.T) {
	s := newTestServer("")
	req := httptest.NewRequest(http.MethodPost, "/v1/outline?filename=blank.md",
		strings.NewReader(""))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(ConditionsHeader); got != "empty-document" {
		t.Errorf("Expected empty-document condition, got %q", got)
	}
	var out outlineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Title != "" || len(out.Outline) != 0 {
		t.Errorf("Expected empty outline, got %+v", out)
	}
}

func TestOutlineUnsupportedType(t *testing.T) {
	s := newTestServer("")
	body, contentType := multipartBody(t, "data.xyz", "whatever")

	req := httptest.NewRequest(http.MethodPost, "/v1/outline", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestOutlineRawRequiresFilename(t *testing.T) {
	s := newTestServer("")
	req := httptest.NewRequest(http.MethodPost, "/v1/outline", strings.NewReader("# Hi"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer("secret")

	post := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/outline?filename=doc.md",
			strings.NewReader(manualMarkdown))
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing key", func(t *testing.T) {
		if rec := post(""); rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})
	t.Run("wrong key", func(t *testing.T) {
		if rec := post("Bearer nope"); rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})
	t.Run("valid key", func(t *testing.T) {
		if rec := post("Bearer secret"); rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
	t.Run("healthz stays public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
	})
}
