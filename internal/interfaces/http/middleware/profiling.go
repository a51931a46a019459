package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

var versionSegment = regexp.MustCompile(`^[vV][0-9]+$`)

// ProfilingConfig selects which requests get profiling labels
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig leaves out probes and the API docs
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/api/v1/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// ProfilingWithConfig labels CPU samples taken while serving a request with
// its controller, route and method so profiles break down per endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	skip := pathSet{exact: cfg.SkipPaths, prefixes: cfg.SkipPathPrefixes}

	return func(c *gin.Context) {
		if skip.has(c.Request.URL.Path) {
			c.Next()
			return
		}
		route := c.FullPath()
		labels := telemetry.HTTPRequestLabels(controllerFromRoute(route), route, c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute picks the first static segment after /api/vN, so
// /api/v1/subscriptions/:id/renew is "subscriptions".
func controllerFromRoute(route string) string {
	for part := range strings.SplitSeq(route, "/") {
		switch {
		case part == "", part == "api", isVersionSegment(part), strings.HasPrefix(part, ":"):
		default:
			return part
		}
	}
	return ""
}

func isVersionSegment(segment string) bool {
	return versionSegment.MatchString(segment)
}
