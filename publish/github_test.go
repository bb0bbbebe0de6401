package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estrenos-monitor/utils"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestPublishCreatesNewFile(t *testing.T) {
	var put struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&put); err != nil {
				t.Errorf("decode put body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	p := NewGitHubPublisherWithBaseURL("test-token", "acme/reports", "main",
		5*time.Second, utils.NewLogger(), srv.URL)

	local := writeTemp(t, "report.json", `{"date":"2026-08-31"}`)
	err := p.PublishReport(context.Background(), "2026-08-31", map[string]string{"report.json": local})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if put.SHA != "" {
		t.Errorf("new file must not carry a sha, got %q", put.SHA)
	}
	if put.Branch != "main" {
		t.Errorf("branch = %q", put.Branch)
	}
	if put.Message != "Update report.json report for 2026-08-31" {
		t.Errorf("message = %q", put.Message)
	}
	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	if err != nil || string(decoded) != `{"date":"2026-08-31"}` {
		t.Errorf("content round trip = %q, %v", decoded, err)
	}
}

func TestPublishUpdatesExistingFile(t *testing.T) {
	var gotSHA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]string{"sha": "abc123"})
		case http.MethodPut:
			var body struct {
				SHA string `json:"sha"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			gotSHA = body.SHA
			w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	p := NewGitHubPublisherWithBaseURL("t", "acme/reports", "main",
		5*time.Second, utils.NewLogger(), srv.URL)

	local := writeTemp(t, "report.csv", "section,title\n")
	err := p.PublishReport(context.Background(), "2026-08-31", map[string]string{"report.csv": local})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if gotSHA != "abc123" {
		t.Errorf("existing file must carry its blob sha, got %q", gotSHA)
	}
}

func TestPublishSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid request"}`))
	}))
	defer srv.Close()

	p := NewGitHubPublisherWithBaseURL("t", "acme/reports", "main",
		5*time.Second, utils.NewLogger(), srv.URL)

	local := writeTemp(t, "report.json", "{}")
	err := p.PublishReport(context.Background(), "2026-08-31", map[string]string{"report.json": local})
	if err == nil {
		t.Fatal("expected error from 422 response")
	}
}
