package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/keystone/audit"
	"github.com/dev-mohitbeniwal/keystone/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testUser  = &model.LoginUser{ID: "u-1", Account: "alice", Role: "user"}
	testAdmin = &model.LoginUser{ID: "a-1", Account: "root", Role: "admin"}
)

// asCaller injects a caller the way Authenticate does.
func asCaller(caller *model.LoginUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller != nil {
			c.Set(callerKey, caller)
			c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))
		}
		c.Next()
	}
}

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

func serve(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	r.ServeHTTP(w, req)
	return w
}

type recordingAudit struct {
	mu   sync.Mutex
	logs []audit.AuditLog
}

func (r *recordingAudit) Record(log audit.AuditLog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return true
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) ObserveDecision(decision string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[decision]++
}
