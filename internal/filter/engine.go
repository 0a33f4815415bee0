// Package filter implements the numeric threshold matching engine for
// workshop items.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"workshop_bot/internal/model"
	"workshop_bot/internal/steam"
)

// Passes checks whether an item satisfies every filter in the set.
// An empty set always passes. Comparators are inclusive: "gte" passes
// when the actual value is >= the threshold, "lte" when it is <=.
func Passes(item steam.Item, filters map[model.Metric]model.Filter) bool {
	for _, f := range filters {
		actual := metricValue(item, f.Metric)
		switch f.Compare {
		case model.CompareAtLeast:
			if actual < f.Threshold {
				return false
			}
		case model.CompareAtMost:
			if actual > f.Threshold {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// metricValue extracts the numeric field a metric refers to. Unknown
// metrics read as 0, matching the treatment of absent feed fields.
func metricValue(item steam.Item, m model.Metric) int64 {
	switch m {
	case model.MetricSize:
		return item.SizeBytes
	case model.MetricSubscriptions:
		return item.Subscriptions
	case model.MetricFavorites:
		return item.Favorites
	case model.MetricLifetimeSubscriptions:
		return item.LifetimeSubscriptions
	case model.MetricLifetimeFavorites:
		return item.LifetimeFavorites
	}
	return 0
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (model.Metric, error) {
	m := model.Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range model.Metrics() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// ParseComparator maps the user-facing ">=" / "<=" tokens to a comparator.
func ParseComparator(s string) (model.Comparator, error) {
	switch strings.TrimSpace(s) {
	case ">=":
		return model.CompareAtLeast, nil
	case "<=":
		return model.CompareAtMost, nil
	}
	return "", fmt.Errorf("unknown comparator %q, use >= or <=", s)
}

// ParseThreshold parses a threshold value for a metric. Size values take
// an optional kb/mb/gb suffix and are normalized to bytes; all other
// metrics are plain non-negative integers.
func ParseThreshold(m model.Metric, s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("threshold is required")
	}

	mult := int64(1)
	if m == model.MetricSize {
		switch {
		case strings.HasSuffix(s, "kb"):
			mult, s = 1024, strings.TrimSuffix(s, "kb")
		case strings.HasSuffix(s, "mb"):
			mult, s = 1024*1024, strings.TrimSuffix(s, "mb")
		case strings.HasSuffix(s, "gb"):
			mult, s = 1024*1024*1024, strings.TrimSuffix(s, "gb")
		}
		s = strings.TrimSpace(s)
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid threshold %q", s)
	}
	return v * mult, nil
}
