package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	apiCSP         = "default-src 'none'; frame-ancestors 'none'"
	mediaCSP       = "default-src 'none'; img-src 'self'; frame-ancestors 'none'"
	mediaCacheable = "public, max-age=31536000, immutable"
)

var baseSecurityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "0"},
	{"Referrer-Policy", "no-referrer"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
}

type SecurityConfig struct {
	// HSTS is off for plain-http development servers.
	HSTS bool
	// MediaPrefixes serve uploaded logos, photos and gallery images. Every
	// upload gets a fresh key, so these responses are cached for good.
	MediaPrefixes []string
}

// SecurityHeaders hardens every response. API responses are never cached.
func SecurityHeaders(cfg SecurityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range baseSecurityHeaders {
				h.Set(kv[0], kv[1])
			}
			if cfg.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			if isMedia(c.Request().URL.Path, cfg.MediaPrefixes) {
				h.Set("Content-Security-Policy", mediaCSP)
				h.Set("Cache-Control", mediaCacheable)
			} else {
				h.Set("Content-Security-Policy", apiCSP)
				h.Set("Cache-Control", "no-store")
			}
			return next(c)
		}
	}
}

func isMedia(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
