// Package middleware provides the cross-cutting HTTP concerns of the
// request pipeline: CORS negotiation, rate limiting, request logging and
// metrics.
package middleware

import "net/http"

// CORS computes cross-origin response headers. The zero-value defaults
// allow any origin. The same instance serves both the dispatcher's
// global pipeline and per-route use.
type CORS struct {
	Origin      string
	Methods     string
	Headers     string
	Credentials bool
}

// CORSOptions configures a CORS negotiator. Zero fields keep defaults.
type CORSOptions struct {
	Origin      string
	Methods     string
	Headers     string
	Credentials *bool
}

// NewCORS creates a negotiator with the documented defaults.
func NewCORS(opts CORSOptions) *CORS {
	c := &CORS{
		Origin:      "*",
		Methods:     "GET,HEAD,PUT,PATCH,POST,DELETE",
		Headers:     "Content-Type,Authorization,X-Requested-With",
		Credentials: true,
	}
	if opts.Origin != "" {
		c.Origin = opts.Origin
	}
	if opts.Methods != "" {
		c.Methods = opts.Methods
	}
	if opts.Headers != "" {
		c.Headers = opts.Headers
	}
	if opts.Credentials != nil {
		c.Credentials = *opts.Credentials
	}
	return c
}

// Apply merges the CORS headers onto a response.
func (c *CORS) Apply(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", c.Origin)
	h.Set("Access-Control-Allow-Methods", c.Methods)
	h.Set("Access-Control-Allow-Headers", c.Headers)
	if c.Credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	} else {
		h.Set("Access-Control-Allow-Credentials", "false")
	}
}

// Preflight answers an OPTIONS request: the full header set, empty body,
// status 204.
func (c *CORS) Preflight(w http.ResponseWriter) {
	c.Apply(w)
	w.WriteHeader(http.StatusNoContent)
}
