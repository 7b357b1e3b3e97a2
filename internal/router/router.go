// Package router implements the request dispatcher: ordered route
// matching with :param segments, a wildcard fallback, and the fixed
// per-request pipeline (preflight short-circuit, rate limiting, match,
// invoke, response decoration).
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/logging"
	"github.com/soil-network/platform-api/internal/middleware"
)

// Params holds the raw path-parameter bindings for a matched route. No
// type coercion or percent-decoding is applied.
type Params map[string]string

// Handler serves a matched request.
type Handler func(w http.ResponseWriter, r *http.Request, params Params)

type route struct {
	method  string // GET/POST/PUT/DELETE or "*"
	pattern string
	handler Handler
}

// Router dispatches requests against an ordered route table. Routes are
// registered once at startup; the table is never mutated afterwards and
// the Router holds no other cross-request state.
type Router struct {
	routes  []route
	cors    *middleware.CORS
	limiter *middleware.RateLimiter

	trustedIPHeader string
	development     bool
	log             *logging.Logger
}

// Options configures a Router.
type Options struct {
	CORS    *middleware.CORS
	Limiter *middleware.RateLimiter // nil disables rate limiting

	// TrustedIPHeader names the proxy header carrying the client IP.
	TrustedIPHeader string

	// Development exposes raw error messages on 500 responses.
	Development bool

	Logger *logging.Logger
}

// New creates an empty router.
func New(opts Options) *Router {
	cors := opts.CORS
	if cors == nil {
		cors = middleware.NewCORS(middleware.CORSOptions{})
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewDefault("router")
	}
	header := opts.TrustedIPHeader
	if header == "" {
		header = "CF-Connecting-IP"
	}
	return &Router{
		cors:            cors,
		limiter:         opts.Limiter,
		trustedIPHeader: header,
		development:     opts.Development,
		log:             log,
	}
}

// Handle appends a route. Overlapping patterns must be registered
// most-specific-first: dispatch is strictly first-match-wins.
func (rt *Router) Handle(method, pattern string, h Handler) {
	rt.routes = append(rt.routes, route{method: method, pattern: pattern, handler: h})
}

func (rt *Router) Get(pattern string, h Handler)    { rt.Handle(http.MethodGet, pattern, h) }
func (rt *Router) Post(pattern string, h Handler)   { rt.Handle(http.MethodPost, pattern, h) }
func (rt *Router) Put(pattern string, h Handler)    { rt.Handle(http.MethodPut, pattern, h) }
func (rt *Router) Delete(pattern string, h Handler) { rt.Handle(http.MethodDelete, pattern, h) }

// All registers a route matching any method.
func (rt *Router) All(pattern string, h Handler) { rt.Handle("*", pattern, h) }

// ServeHTTP runs the fixed pipeline: preflight, rate limit, match,
// invoke, decorate.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Preflight bypasses everything, including rate limiting.
	if r.Method == http.MethodOptions {
		rt.cors.Preflight(w)
		return
	}

	// Headers must precede the body write, so the response is decorated
	// up front; this covers success and error paths alike.
	rt.cors.Apply(w)

	if rt.limiter != nil {
		decision := rt.limiter.Allow(r.Context(), httputil.ClientIP(r, rt.trustedIPHeader))
		rt.limiter.SetHeaders(w, decision)
		if !decision.Allowed {
			httputil.WriteError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
	}

	for _, route := range rt.routes {
		if route.method != "*" && route.method != r.Method {
			continue
		}
		params, ok := matchPattern(route.pattern, r.URL.Path)
		if !ok {
			continue
		}
		rt.invoke(route, w, r, params)
		return
	}

	httputil.WriteError(w, http.StatusNotFound, "Not found")
}

// invoke runs the handler with panic recovery. Only truly unexpected
// failures land here; handlers answer their own expected error cases.
func (rt *Router) invoke(route route, w http.ResponseWriter, r *http.Request, params Params) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		rt.log.WithContext(r.Context()).WithFields(map[string]interface{}{
			"method":  r.Method,
			"pattern": route.pattern,
			"panic":   fmt.Sprint(rec),
		}).Error("handler panic")

		body := map[string]string{"error": "Internal server error"}
		if rt.development {
			body["message"] = fmt.Sprint(rec)
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, body)
	}()

	route.handler(w, r, params)
}

// matchPattern matches path against pattern segment by segment. A bare
// "*" pattern matches any path. Segment counts must otherwise be equal;
// ":name" segments always match and bind the raw path segment.
func matchPattern(pattern, path string) (Params, bool) {
	if pattern == "*" {
		return Params{}, true
	}
	if pattern == path {
		return Params{}, true
	}

	patternSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")
	if len(patternSegs) != len(pathSegs) {
		return nil, false
	}

	params := Params{}
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, ":") {
			params[seg[1:]] = pathSegs[i]
			continue
		}
		if seg != pathSegs[i] {
			return nil, false
		}
	}
	return params, true
}
