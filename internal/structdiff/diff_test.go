package structdiff

import (
	"reflect"
	"testing"
	"time"
)

func TestChangedPaths(t *testing.T) {
	tests := []struct {
		name      string
		before    map[string]any
		after     map[string]any
		whitelist []string
		want      []string
	}{
		{
			name:      "nested scalar change",
			before:    map[string]any{"a": 1.0, "b": map[string]any{"c": 2.0}},
			after:     map[string]any{"a": 1.0, "b": map[string]any{"c": 3.0}},
			whitelist: []string{"b"},
			want:      []string{"b.c"},
		},
		{
			name:      "identical snapshots",
			before:    map[string]any{"a": 1.0, "b": map[string]any{"c": 2.0}},
			after:     map[string]any{"a": 1.0, "b": map[string]any{"c": 2.0}},
			whitelist: []string{"a", "b"},
			want:      []string{},
		},
		{
			name:      "whitelist excludes change",
			before:    map[string]any{"a": 1.0, "b": map[string]any{"c": 2.0}},
			after:     map[string]any{"a": 9.0, "b": map[string]any{"c": 2.0}},
			whitelist: []string{"b"},
			want:      []string{},
		},
		{
			name:      "array is a leaf",
			before:    map[string]any{"b": map[string]any{"list": []any{1.0, 2.0}}},
			after:     map[string]any{"b": map[string]any{"list": []any{2.0, 1.0}}},
			whitelist: []string{"b"},
			want:      []string{"b.list"},
		},
		{
			name:      "added and removed fields",
			before:    map[string]any{"b": map[string]any{"x": 1.0}},
			after:     map[string]any{"b": map[string]any{"y": 1.0}},
			whitelist: []string{"b"},
			want:      []string{"b.x", "b.y"},
		},
		{
			name: "equivalent timestamp spellings are equal",
			before: map[string]any{
				"b": map[string]any{"at": "2026-03-09T10:00:00+02:00"},
			},
			after: map[string]any{
				"b": map[string]any{"at": "2026-03-09T08:00:00Z"},
			},
			whitelist: []string{"b"},
			want:      []string{},
		},
	}

	for _, tc := range tests {
		got := ChangedPaths(tc.before, tc.after, tc.whitelist)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestChangedPureAndSorted(t *testing.T) {
	before := map[string]any{
		"brand": map[string]any{"fee": 100.0, "title": "Spring", "currency": "USD"},
	}
	after := map[string]any{
		"brand": map[string]any{"fee": 200.0, "title": "Summer", "currency": "USD"},
	}

	first := ChangedPaths(before, after, []string{"brand"})
	for i := 0; i < 10; i++ {
		if got := ChangedPaths(before, after, []string{"brand"}); !reflect.DeepEqual(got, first) {
			t.Fatalf("diff is not deterministic: %v vs %v", got, first)
		}
	}
	want := []string{"brand.fee", "brand.title"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("expected sorted paths %v got %v", want, first)
	}
}

func TestChangedOnStructs(t *testing.T) {
	type terms struct {
		Title string     `json:"title"`
		Fee   int64      `json:"fee"`
		Start *time.Time `json:"start,omitempty"`
	}
	type doc struct {
		Brand terms  `json:"brand"`
		Admin string `json:"admin"`
	}

	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	before := doc{Brand: terms{Title: "Launch", Fee: 5000, Start: &start}, Admin: "a"}
	after := before
	after.Brand.Fee = 7500
	after.Admin = "b"

	got, err := Changed(before, after, []string{"brand"})
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	want := []string{"brand.fee"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}

	same, err := Changed(after, after, []string{"brand", "admin"})
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if len(same) != 0 {
		t.Fatalf("expected empty diff got %v", same)
	}
}
