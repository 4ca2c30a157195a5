// Package searchtest provides a fake search API for tests.
package searchtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Paths served by the fake API
const (
	PersonPath     = "/search/users"
	RepositoryPath = "/search/repositories"
)

// Reply is a canned response for one path
type Reply struct {
	Status int
	Body   any
	// Block holds the handler until the request context ends or the
	// channel is closed.
	Block chan struct{}
}

// Server is an httptest server imitating the two search endpoints
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	replies map[string]Reply
	queries map[string][]string
}

// NewServer starts a fake API. Unconfigured paths answer 404.
func NewServer() *Server {
	s := &Server{
		replies: make(map[string]Reply),
		queries: make(map[string][]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// PersonEndpoint returns the people search URL
func (s *Server) PersonEndpoint() string { return s.URL + PersonPath }

// RepositoryEndpoint returns the repository search URL
func (s *Server) RepositoryEndpoint() string { return s.URL + RepositoryPath }

// Reply configures the response for path
func (s *Server) Reply(path string, r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = r
}

// Queries returns the q parameters received on path
func (s *Server) Queries(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries[path]...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.queries[r.URL.Path] = append(s.queries[r.URL.Path], r.URL.Query().Get("q"))
	reply, ok := s.replies[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if reply.Block != nil {
		select {
		case <-reply.Block:
		case <-r.Context().Done():
			return
		}
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch body := reply.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(body))
	default:
		_ = json.NewEncoder(w).Encode(body)
	}
}

// People builds a people payload from login/id pairs
func People(pairs ...any) map[string]any {
	return payload("login", pairs)
}

// Repositories builds a repository payload from full_name/id pairs
func Repositories(pairs ...any) map[string]any {
	return payload("full_name", pairs)
}

func payload(valueKey string, pairs []any) map[string]any {
	items := make([]map[string]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, map[string]any{
			valueKey: pairs[i],
			"id":     pairs[i+1],
		})
	}
	return map[string]any{
		"total_count":        len(items),
		"incomplete_results": false,
		"items":              items,
	}
}

// AlaScenario configures the canned "ala" responses
func (s *Server) AlaScenario() {
	s.Reply(PersonPath, Reply{Body: People("ala", 166012)})
	s.Reply(RepositoryPath, Reply{Body: Repositories("Alamofire/Alamofire", 22458259)})
}

// Failing configures both endpoints to answer with status
func (s *Server) Failing(status int) {
	body := `{"message":"Validation Failed"}`
	s.Reply(PersonPath, Reply{Status: status, Body: body})
	s.Reply(RepositoryPath, Reply{Status: status, Body: body})
}
