package bot

import (
	"fmt"
	"strings"

	"workshop_bot/internal/filter"
	"workshop_bot/internal/model"
)

// FilterInput is one parsed line of the filter editor: a finished
// session, a "clear <metric>" request, or a new filter.
type FilterInput struct {
	Done   bool
	Clear  model.Metric
	Filter *model.Filter
}

// ParseFilterInput parses filter editor input such as
// "subscriptions >= 1000", "size <= 10mb", "clear favorites", or "done".
func ParseFilterInput(text string) (FilterInput, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return FilterInput{}, fmt.Errorf("empty input")
	}

	switch strings.ToLower(fields[0]) {
	case "done", "cancel":
		return FilterInput{Done: true}, nil
	case "clear":
		if len(fields) != 2 {
			return FilterInput{}, fmt.Errorf("usage: clear <metric>")
		}
		m, err := filter.ParseMetric(fields[1])
		if err != nil {
			return FilterInput{}, err
		}
		return FilterInput{Clear: m}, nil
	}

	if len(fields) != 3 {
		return FilterInput{}, fmt.Errorf("usage: <metric> <op> <value>")
	}

	m, err := filter.ParseMetric(fields[0])
	if err != nil {
		return FilterInput{}, err
	}
	cmp, err := filter.ParseComparator(fields[1])
	if err != nil {
		return FilterInput{}, err
	}
	threshold, err := filter.ParseThreshold(m, fields[2])
	if err != nil {
		return FilterInput{}, err
	}

	return FilterInput{Filter: &model.Filter{
		Metric:    m,
		Compare:   cmp,
		Threshold: threshold,
	}}, nil
}

// ParseCategoryArg parses a category name argument.
func ParseCategoryArg(args string) (model.Category, error) {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case string(model.CategoryUpdated):
		return model.CategoryUpdated, nil
	case string(model.CategoryNew):
		return model.CategoryNew, nil
	}
	return "", fmt.Errorf("unknown category %q, use: updated, new", args)
}

// SplitCategoryArg parses a leading category name and returns the rest of
// the argument string.
func SplitCategoryArg(args string) (model.Category, string, error) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	cat, err := ParseCategoryArg(parts[0])
	if err != nil {
		return "", "", err
	}
	rest := ""
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return cat, rest, nil
}
