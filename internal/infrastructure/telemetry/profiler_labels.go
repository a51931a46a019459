package telemetry

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	LabelController = "controller"
	LabelRoute      = "route"
	LabelMethod     = "method"
	LabelJob        = "job"
)

// maxLabelValue caps label values
const maxLabelValue = 128

// perRecordLabels identify single records and would explode profile series
var perRecordLabels = []string{
	"user_id", "owner_id", "request_id", "trace_id", "span_id",
	"account_id", "transaction_id", "subscription_id",
}

// WithProfilingLabels runs fn with labels attached to the samples it takes.
// Empty, per-record and malformed labels are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels labels one served request by route pattern
func HTTPRequestLabels(controller, route, method string) map[string]string {
	return map[string]string{
		LabelController: controller,
		LabelRoute:      route,
		LabelMethod:     method,
	}
}

// JobLabels labels one scheduled job run
func JobLabels(job string) map[string]string {
	return map[string]string{LabelJob: job}
}

// labelPairs flattens labels into sorted key, value pairs
func labelPairs(labels map[string]string) []string {
	pairs := make([]string, 0, len(labels)*2)
	for _, key := range slices.Sorted(maps.Keys(labels)) {
		value := labels[key]
		key = labelKey(key)
		if key == "" || value == "" || slices.Contains(perRecordLabels, key) {
			continue
		}
		if len(value) > maxLabelValue {
			value = value[:maxLabelValue]
		}
		pairs = append(pairs, key, value)
	}
	return pairs
}

// labelKey lower-cases key, turns spaces and dashes into underscores and
// drops anything outside [a-z0-9_]
func labelKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '-':
			return '_'
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return -1
		}
	}, strings.ToLower(key))
}
