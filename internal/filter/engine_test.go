package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"workshop_bot/internal/model"
	"workshop_bot/internal/steam"
)

func TestPasses(t *testing.T) {
	item := steam.Item{
		SizeBytes:             5 * 1024 * 1024,
		Subscriptions:         1500,
		Favorites:             40,
		LifetimeSubscriptions: 9000,
		LifetimeFavorites:     120,
	}

	tests := []struct {
		name    string
		filters []model.Filter
		want    bool
	}{
		{
			name:    "empty filter set passes",
			filters: nil,
			want:    true,
		},
		{
			name: "at-least passes on equal value",
			filters: []model.Filter{
				{Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 1500},
			},
			want: true,
		},
		{
			name: "at-least fails below threshold",
			filters: []model.Filter{
				{Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 1501},
			},
			want: false,
		},
		{
			name: "at-most passes on equal value",
			filters: []model.Filter{
				{Metric: model.MetricFavorites, Compare: model.CompareAtMost, Threshold: 40},
			},
			want: true,
		},
		{
			name: "at-most fails above threshold",
			filters: []model.Filter{
				{Metric: model.MetricFavorites, Compare: model.CompareAtMost, Threshold: 39},
			},
			want: false,
		},
		{
			name: "conjunction requires every filter to pass",
			filters: []model.Filter{
				{Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 1000},
				{Metric: model.MetricSize, Compare: model.CompareAtMost, Threshold: 1024 * 1024},
			},
			want: false,
		},
		{
			name: "all filters passing",
			filters: []model.Filter{
				{Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 1000},
				{Metric: model.MetricSize, Compare: model.CompareAtMost, Threshold: 10 * 1024 * 1024},
				{Metric: model.MetricLifetimeSubscriptions, Compare: model.CompareAtLeast, Threshold: 9000},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := map[model.Metric]model.Filter{}
			for _, f := range tt.filters {
				set[f.Metric] = f
			}
			got := Passes(item, set)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Passes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPassesMissingFieldDefaultsToZero(t *testing.T) {
	// An item with absent popularity metadata decodes to zeroes and must
	// be comparable like any other value.
	bare := steam.Item{ID: "1", Title: "N/A"}

	set := map[model.Metric]model.Filter{
		model.MetricSubscriptions: {Metric: model.MetricSubscriptions, Compare: model.CompareAtMost, Threshold: 10},
	}
	if !Passes(bare, set) {
		t.Error("zero subscriptions should pass an at-most filter")
	}

	set = map[model.Metric]model.Filter{
		model.MetricSubscriptions: {Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 1},
	}
	if Passes(bare, set) {
		t.Error("zero subscriptions should fail an at-least filter")
	}
}

func TestParseMetric(t *testing.T) {
	for _, m := range model.Metrics() {
		got, err := ParseMetric(string(m))
		if err != nil {
			t.Errorf("ParseMetric(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMetric(%q) = %q", m, got)
		}
	}

	if _, err := ParseMetric("downloads"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestParseComparator(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Comparator
		wantErr bool
	}{
		{in: ">=", want: model.CompareAtLeast},
		{in: "<=", want: model.CompareAtMost},
		{in: ">", wantErr: true},
		{in: "==", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseComparator(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseComparator(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseComparator(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseComparator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		name    string
		metric  model.Metric
		in      string
		want    int64
		wantErr bool
	}{
		{name: "plain count", metric: model.MetricSubscriptions, in: "1000", want: 1000},
		{name: "size bytes", metric: model.MetricSize, in: "512", want: 512},
		{name: "size kb", metric: model.MetricSize, in: "2kb", want: 2 * 1024},
		{name: "size mb", metric: model.MetricSize, in: "10mb", want: 10 * 1024 * 1024},
		{name: "size gb", metric: model.MetricSize, in: "1gb", want: 1024 * 1024 * 1024},
		{name: "size uppercase suffix", metric: model.MetricSize, in: "3MB", want: 3 * 1024 * 1024},
		{name: "suffix ignored for counts", metric: model.MetricSubscriptions, in: "10mb", wantErr: true},
		{name: "negative rejected", metric: model.MetricSize, in: "-5", wantErr: true},
		{name: "garbage rejected", metric: model.MetricSize, in: "lots", wantErr: true},
		{name: "empty rejected", metric: model.MetricSize, in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThreshold(tt.metric, tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("threshold mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
