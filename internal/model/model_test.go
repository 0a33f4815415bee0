package model

import (
	"testing"
)

func TestCategoryEnabledDefaultsOn(t *testing.T) {
	doc := NewUserDocument()
	for _, cat := range Categories() {
		if !doc.CategoryEnabled(cat) {
			t.Errorf("category %q should default to enabled", cat)
		}
	}

	if doc.ToggleCategory(CategoryNew) {
		t.Error("first toggle should disable")
	}
	if doc.CategoryEnabled(CategoryNew) {
		t.Error("category should be disabled after toggle")
	}
	if !doc.ToggleCategory(CategoryNew) {
		t.Error("second toggle should re-enable")
	}
}

func TestSetFilterClearsCategoryState(t *testing.T) {
	doc := NewUserDocument()
	doc.State(CategoryUpdated, "440").Cursor = "111"
	doc.State(CategoryNew, "440").Cursor = "222"

	doc.SetFilter(CategoryUpdated, Filter{
		Metric:    MetricSubscriptions,
		Compare:   CompareAtLeast,
		Threshold: 1000,
	})

	if doc.States[CategoryUpdated] != nil {
		t.Error("updated state should be cleared on filter change")
	}
	if doc.States[CategoryNew]["440"].Cursor != "222" {
		t.Error("other category's state must be untouched")
	}
}

func TestClearFilter(t *testing.T) {
	doc := NewUserDocument()
	doc.SetFilter(CategoryUpdated, Filter{Metric: MetricSize, Compare: CompareAtMost, Threshold: 1024})

	if doc.ClearFilter(CategoryUpdated, MetricSubscriptions) {
		t.Error("clearing an unset metric should report false")
	}
	if !doc.ClearFilter(CategoryUpdated, MetricSize) {
		t.Error("clearing a set metric should report true")
	}
	if len(doc.Filters[CategoryUpdated]) != 0 {
		t.Errorf("filter should be gone: %+v", doc.Filters)
	}
}

func TestDropGameRemovesStateEverywhere(t *testing.T) {
	doc := NewUserDocument()
	doc.Games["440"] = "Team Fortress 2"
	doc.State(CategoryUpdated, "440").Cursor = "111"
	doc.State(CategoryNew, "440").Cursor = "222"

	name, ok := doc.DropGame("440")
	if !ok || name != "Team Fortress 2" {
		t.Fatalf("got (%q, %v)", name, ok)
	}
	for _, cat := range Categories() {
		if doc.States[cat]["440"] != nil {
			t.Errorf("state for %q should be dropped", cat)
		}
	}

	if _, ok := doc.DropGame("440"); ok {
		t.Error("dropping an untracked game should report false")
	}
}
