package bot

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"workshop_bot/internal/model"
)

func TestParseFilterInput(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FilterInput
		wantErr bool
	}{
		{
			name: "set filter",
			in:   "subscriptions >= 1000",
			want: FilterInput{Filter: &model.Filter{
				Metric:    model.MetricSubscriptions,
				Compare:   model.CompareAtLeast,
				Threshold: 1000,
			}},
		},
		{
			name: "size with suffix",
			in:   "size <= 10mb",
			want: FilterInput{Filter: &model.Filter{
				Metric:    model.MetricSize,
				Compare:   model.CompareAtMost,
				Threshold: 10 * 1024 * 1024,
			}},
		},
		{
			name: "done",
			in:   "done",
			want: FilterInput{Done: true},
		},
		{
			name: "cancel is an alias for done",
			in:   "CANCEL",
			want: FilterInput{Done: true},
		},
		{
			name: "clear metric",
			in:   "clear favorites",
			want: FilterInput{Clear: model.MetricFavorites},
		},
		{name: "clear without metric", in: "clear", wantErr: true},
		{name: "clear unknown metric", in: "clear downloads", wantErr: true},
		{name: "exclusive operator rejected", in: "subscriptions > 1000", wantErr: true},
		{name: "too few fields", in: "subscriptions 1000", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterInput(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("input mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCategoryArg(t *testing.T) {
	if cat, err := ParseCategoryArg(" Updated "); err != nil || cat != model.CategoryUpdated {
		t.Errorf("got (%q, %v)", cat, err)
	}
	if cat, err := ParseCategoryArg("new"); err != nil || cat != model.CategoryNew {
		t.Errorf("got (%q, %v)", cat, err)
	}
	if _, err := ParseCategoryArg("weekly"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestSplitCategoryArg(t *testing.T) {
	cat, rest, err := SplitCategoryArg("updated subscriptions >= 1000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat != model.CategoryUpdated || rest != "subscriptions >= 1000" {
		t.Errorf("got (%q, %q)", cat, rest)
	}

	cat, rest, err = SplitCategoryArg("new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat != model.CategoryNew || rest != "" {
		t.Errorf("got (%q, %q)", cat, rest)
	}

	if _, _, err := SplitCategoryArg("weekly stuff"); err == nil {
		t.Error("expected error for unknown category")
	}
}
