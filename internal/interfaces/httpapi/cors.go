package httpapi

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET,PUT,POST,OPTIONS"
	corsAllowHeaders  = "Content-Type,Accept,X-Request-ID"
	corsExposeHeaders = "X-Request-ID"
	corsMaxAgeSeconds = "600"
)

// corsPolicy is the parsed CORS_ALLOWED_ORIGINS list. A "*" entry opens the
// API to every origin.
type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newCORSPolicy(allowed []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowed))}
	for _, raw := range allowed {
		origin := strings.TrimRight(strings.TrimSpace(raw), "/")
		switch origin {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[strings.ToLower(origin)] = struct{}{}
		}
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// false when the origin gets no CORS headers.
func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	if origin == "" {
		return "", false
	}
	if p.any {
		return "*", true
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok {
		return origin, true
	}
	return "", false
}

func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value, ok := policy.allowOrigin(strings.TrimSpace(r.Header.Get("Origin")))
		if ok {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", value)
			if value != "*" {
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAgeSeconds)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
