package bot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"workshop_bot/internal/model"
)

func TestFormatGameList(t *testing.T) {
	doc := model.NewUserDocument()
	if got := FormatGameList(doc); !strings.Contains(got, "No games added yet") {
		t.Errorf("empty list message mismatch: %q", got)
	}

	doc.Games = map[string]string{
		"570": "Dota 2",
		"440": "Team Fortress 2",
	}
	got := FormatGameList(doc)

	// Sorted by app id.
	i440 := strings.Index(got, "[ 440 ]")
	i570 := strings.Index(got, "[ 570 ]")
	if i440 < 0 || i570 < 0 || i440 > i570 {
		t.Errorf("games missing or out of order:\n%s", got)
	}
}

func TestFormatFilter(t *testing.T) {
	tests := []struct {
		name string
		f    model.Filter
		want string
	}{
		{
			name: "count with separator",
			f:    model.Filter{Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 1000},
			want: "subscriptions >= 1,000",
		},
		{
			name: "size rendered as bytes",
			f:    model.Filter{Metric: model.MetricSize, Compare: model.CompareAtMost, Threshold: 10 * 1024 * 1024},
			want: "size <= 10 MiB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FormatFilter(tt.f)); diff != "" {
				t.Errorf("filter text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatFilterList(t *testing.T) {
	if got := FormatFilterList(model.CategoryUpdated, nil); !strings.Contains(got, "No filters for updated") {
		t.Errorf("empty list message mismatch: %q", got)
	}

	filters := map[model.Metric]model.Filter{
		model.MetricSubscriptions: {Metric: model.MetricSubscriptions, Compare: model.CompareAtLeast, Threshold: 500},
		model.MetricSize:          {Metric: model.MetricSize, Compare: model.CompareAtMost, Threshold: 1024},
	}
	got := FormatFilterList(model.CategoryUpdated, filters)

	// Listed in the fixed metric order, size first.
	iSize := strings.Index(got, "size <=")
	iSubs := strings.Index(got, "subscriptions >=")
	if iSize < 0 || iSubs < 0 || iSize > iSubs {
		t.Errorf("filters missing or out of order:\n%s", got)
	}
}
