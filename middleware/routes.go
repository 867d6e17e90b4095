package middleware

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/keystone/auth"
)

// Routes registers gin handlers and declares their required role in the same
// call, so no route can exist without an entry in the requirement table.
type Routes struct {
	group *gin.RouterGroup
	reqs  *auth.Requirements
}

func NewRoutes(group *gin.RouterGroup, reqs *auth.Requirements) *Routes {
	return &Routes{group: group, reqs: reqs}
}

func (r *Routes) Group(relativePath string, handlers ...gin.HandlerFunc) *Routes {
	return &Routes{group: r.group.Group(relativePath, handlers...), reqs: r.reqs}
}

// Handle panics if the requirement cannot be declared, like gin does for
// conflicting routes.
func (r *Routes) Handle(method, relativePath, mustRole string, handlers ...gin.HandlerFunc) {
	fullPath := joinPaths(r.group.BasePath(), relativePath)
	r.reqs.MustDeclare(auth.OperationOf(method, fullPath), mustRole)
	r.group.Handle(method, relativePath, handlers...)
}

func (r *Routes) GET(relativePath, mustRole string, handlers ...gin.HandlerFunc) {
	r.Handle(http.MethodGet, relativePath, mustRole, handlers...)
}

func (r *Routes) POST(relativePath, mustRole string, handlers ...gin.HandlerFunc) {
	r.Handle(http.MethodPost, relativePath, mustRole, handlers...)
}

func (r *Routes) PUT(relativePath, mustRole string, handlers ...gin.HandlerFunc) {
	r.Handle(http.MethodPut, relativePath, mustRole, handlers...)
}

func (r *Routes) DELETE(relativePath, mustRole string, handlers ...gin.HandlerFunc) {
	r.Handle(http.MethodDelete, relativePath, mustRole, handlers...)
}

// joinPaths mirrors how gin computes a route's full path.
func joinPaths(absolutePath, relativePath string) string {
	if relativePath == "" {
		return absolutePath
	}
	finalPath := path.Join(absolutePath, relativePath)
	if relativePath[len(relativePath)-1] == '/' && finalPath[len(finalPath)-1] != '/' {
		return finalPath + "/"
	}
	return finalPath
}
