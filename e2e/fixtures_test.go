//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
)

// fakeAPI answers the two search endpoints with canned payloads
type fakeAPI struct {
	srv *httptest.Server

	mu      sync.Mutex
	status  int
	queries []string
}

func newFakeAPI() *fakeAPI {
	a := &fakeAPI{status: http.StatusOK}
	a.srv = httptest.NewServer(http.HandlerFunc(a.handle))
	return a
}

func (a *fakeAPI) URL() string { return a.srv.URL }

func (a *fakeAPI) Close() { a.srv.Close() }

// Fail makes every following request answer with status
func (a *fakeAPI) Fail(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

// Queries returns every q parameter received so far
func (a *fakeAPI) Queries() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.queries...)
}

func (a *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.queries = append(a.queries, r.URL.Query().Get("q"))
	status := a.status
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
		return
	}

	var items []map[string]any
	switch r.URL.Path {
	case "/search/users":
		items = []map[string]any{{"login": "ala", "id": 166012}}
	case "/search/repositories":
		items = []map[string]any{{"full_name": "Alamofire/Alamofire", "id": 22458259}}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_count":        len(items),
		"incomplete_results": false,
		"items":              items,
	})
}

// CreateTestWorkspace sets up an isolated HOME and a fake search API
func (tf *TUITestFramework) CreateTestWorkspace() {
	tf.t.Helper()
	tf.workspace = tf.t.TempDir()
	if err := os.MkdirAll(filepath.Join(tf.workspace, ".config"), 0o755); err != nil {
		tf.t.Fatalf("failed to create config dir: %v", err)
	}
	tf.api = newFakeAPI()
}

// LogPath is where the application under test writes its log
func (tf *TUITestFramework) LogPath() string {
	return filepath.Join(tf.workspace, "gitsuggest.log")
}

// LogContents reads the application log, empty when missing
func (tf *TUITestFramework) LogContents() string {
	data, err := os.ReadFile(tf.LogPath())
	if err != nil {
		return ""
	}
	return string(data)
}
