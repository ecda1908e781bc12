package xhttp

import (
	"github.com/fasthttp/router"
)

type Router = router.Router

// NewRouter returns a new Router
func NewRouter() *Router {
	return router.New()
}

// CreateDefaultRouter returns a new router that answers unknown paths and
// methods with a JSON message and remembers the matched route pattern.
func CreateDefaultRouter() *Router {
	r := NewRouter()
	r.RedirectFixedPath = true
	r.RedirectTrailingSlash = true
	r.SaveMatchedRoutePath = true
	r.NotFound = NotFoundHandler
	r.MethodNotAllowed = MethodNotAllowedHandler
	r.HandleOPTIONS = false
	r.HandleMethodNotAllowed = true
	return r
}

// NotFoundHandler is the default 404 handler
func NotFoundHandler(ctx *RequestCtx) {
	WriteMessage(ctx, StatusNotFound, StatusText(StatusNotFound))
}

func MethodNotAllowedHandler(ctx *RequestCtx) {
	WriteMessage(ctx, StatusMethodNotAllowed, StatusText(StatusMethodNotAllowed))
}

// Routes is implemented by both *Router and *router.Group, so handlers can be
// mounted at the root or under a prefix.
type Routes interface {
	GET(path string, handler RequestHandler)
	POST(path string, handler RequestHandler)
	PUT(path string, handler RequestHandler)
	PATCH(path string, handler RequestHandler)
	DELETE(path string, handler RequestHandler)
}

// Mount returns r itself for an empty prefix and a group otherwise.
func Mount(r *Router, prefix string) Routes {
	if prefix == "" || prefix == "/" {
		return r
	}
	return r.Group(prefix)
}
