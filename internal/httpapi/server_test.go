package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tavanbogd/nextaction/internal/config"
	"github.com/tavanbogd/nextaction/internal/llm"
	"github.com/tavanbogd/nextaction/internal/observability"
	"github.com/tavanbogd/nextaction/internal/pipeline"
	"github.com/tavanbogd/nextaction/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}
	promptPath := filepath.Join(root, "prompt0903.txt")
	if err := os.WriteFile(promptPath, []byte("Recommend the next collection action."), 0o644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	cfg := config.Config{
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	metrics := observability.NewMetrics(fmt.Sprintf("test_httpapi_%d", time.Now().UnixNano()))
	st := store.NewFileStore(filepath.Join(root, "response"), zap.NewNop())
	p := pipeline.New(dataDir, promptPath, llm.NewMockClient(), st, metrics, zap.NewNop())
	srv := New(cfg, p, metrics, zap.NewNop())

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, dataDir
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	return res
}

func TestNextActionRequiresFields(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing customer_id", payload: map[string]string{"emp_id": "E1"}},
		{name: "missing emp_id", payload: map[string]string{"customer_id": "7"}},
		{name: "empty body", payload: map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := postJSON(t, ts.URL+"/api/next_action", tt.payload)
			defer res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestNextActionNoDataIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	res := postJSON(t, ts.URL+"/api/next_action", map[string]string{"customer_id": "7", "emp_id": "E1"})
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload["code"] != "no_data" {
		t.Fatalf("code = %q, want %q", payload["code"], "no_data")
	}
}

func TestNextActionSuccess(t *testing.T) {
	ts, dataDir := newTestServer(t)
	content := "customer_id,amount,year,month\n7,50000,2023,1\n7,52000,2023,2\n"
	if err := os.WriteFile(filepath.Join(dataDir, "98. Income.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write income csv: %v", err)
	}

	res := postJSON(t, ts.URL+"/api/next_action", map[string]string{"customer_id": "7", "emp_id": "E1"})
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var rec store.Recommendation
	if err := json.NewDecoder(res.Body).Decode(&rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.CustomerID != "7" || rec.EmpID != "E1" {
		t.Fatalf("rec = %+v, want customer 7 / employee E1", rec)
	}
	if rec.Response == "" || rec.Created == "" {
		t.Fatalf("rec = %+v, want non-empty response and created", rec)
	}

	// The stored record is immediately visible to the employee query.
	listRes := postJSON(t, ts.URL+"/api/filter_response", map[string]string{"emp_id": "E1"})
	defer listRes.Body.Close()
	var listed struct {
		Results []store.Recommendation `json:"results"`
		Count   int                    `json:"count"`
	}
	if err := json.NewDecoder(listRes.Body).Decode(&listed); err != nil {
		t.Fatalf("decode filter response: %v", err)
	}
	if listed.Count != 1 || len(listed.Results) != 1 {
		t.Fatalf("filter response = %+v, want exactly the stored record", listed)
	}
	if listed.Results[0] != rec {
		t.Fatalf("round trip mismatch: %+v vs %+v", listed.Results[0], rec)
	}
}

func TestFilterResponseEmptyStore(t *testing.T) {
	ts, _ := newTestServer(t)

	res := postJSON(t, ts.URL+"/api/filter_response", map[string]string{"emp_id": "E1"})
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"results":[]`) || !strings.Contains(body, `"count":0`) {
		t.Fatalf("body = %s, want empty results and zero count", body)
	}
}

func TestFilterResponseRequiresEmpID(t *testing.T) {
	ts, _ := newTestServer(t)
	res := postJSON(t, ts.URL+"/api/filter_response", map[string]string{})
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestLivenessProbe(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/test")
	if err != nil {
		t.Fatalf("GET /api/test error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["message"] == "" {
		t.Fatalf("payload = %+v, want confirmation message", payload)
	}
}
