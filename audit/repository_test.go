package audit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCluster struct {
	mu       sync.Mutex
	indexed  map[string]string
	searches []string
}

func newFakeCluster(t *testing.T) (*fakeCluster, *httptest.Server) {
	fc := &fakeCluster{indexed: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		body, _ := io.ReadAll(r.Body)

		fc.mu.Lock()
		defer fc.mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/_search"):
			fc.searches = append(fc.searches, string(body))
			_, _ = io.WriteString(w, `{"hits":{"hits":[
				{"_source":{"id":"a","operation":"GET /api/v1/users","required_role":"admin","decision":"forbidden","user_id":"u1"}},
				{"_source":{"id":"b","operation":"GET /api/v1/users","required_role":"admin","decision":"allow","access_granted":true,"user_id":"u2"}}
			]}}`)
		case strings.HasPrefix(r.URL.Path, "/authz-audit/_doc/"):
			id := strings.TrimPrefix(r.URL.Path, "/authz-audit/_doc/")
			fc.indexed[id] = string(body)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"result":"created"}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return fc, srv
}

func TestElasticsearchRepositoryLogAccess(t *testing.T) {
	fc, srv := newFakeCluster(t)
	repo, err := NewElasticsearchRepository(srv.URL, "authz-audit")
	require.NoError(t, err)

	err = repo.LogAccess(context.Background(), AuditLog{
		Operation:    "DELETE /api/v1/users",
		RequiredRole: "admin",
		Decision:     "forbidden",
		UserID:       "u1",
	})
	require.NoError(t, err)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	require.Len(t, fc.indexed, 1)
	for id, doc := range fc.indexed {
		assert.NotEmpty(t, id)
		assert.Contains(t, doc, `"operation":"DELETE /api/v1/users"`)
		assert.Contains(t, doc, `"decision":"forbidden"`)
		assert.Contains(t, doc, `"id":"`+id+`"`)
	}
}

func TestElasticsearchRepositoryLogAccessError(t *testing.T) {
	_, srv := newFakeCluster(t)
	repo, err := NewElasticsearchRepository(srv.URL, "other-index")
	require.NoError(t, err)

	err = repo.LogAccess(context.Background(), AuditLog{ID: "x", Operation: "GET /"})
	assert.Error(t, err)
}

func TestElasticsearchRepositoryQueryLogs(t *testing.T) {
	fc, srv := newFakeCluster(t)
	repo, err := NewElasticsearchRepository(srv.URL, "authz-audit")
	require.NoError(t, err)

	logs, err := repo.QueryLogs(context.Background(), Query{UserID: "u1", From: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "a", logs[0].ID)
	assert.True(t, logs[1].AccessGranted)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	require.Len(t, fc.searches, 1)
	assert.Contains(t, fc.searches[0], `"user_id":"u1"`)
	assert.Contains(t, fc.searches[0], `"gte"`)
}

func TestBuildSearch(t *testing.T) {
	q := buildSearch(Query{})
	assert.Equal(t, map[string]any{"match_all": map[string]any{}}, q["query"])
	assert.Equal(t, defaultQuerySize, q["size"])

	q = buildSearch(Query{Operation: "GET /health", Size: 5})
	must := q["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	assert.Len(t, must, 1)
	assert.Equal(t, 5, q["size"])
}
