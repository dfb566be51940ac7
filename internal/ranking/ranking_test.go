package ranking

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing map[string]int
		scores   map[string]int
		expected map[string]int
	}{
		{
			name:     "empty ranking",
			existing: nil,
			scores:   map[string]int{"alpha": 15},
			expected: map[string]int{"alpha": 15},
		},
		{
			name:     "adds to existing name",
			existing: map[string]int{"alpha": 10, "bravo": 3},
			scores:   map[string]int{"alpha": 15},
			expected: map[string]int{"alpha": 25, "bravo": 3},
		},
		{
			name:     "zero score still recorded",
			existing: map[string]int{"alpha": 10},
			scores:   map[string]int{"charlie": 0},
			expected: map[string]int{"alpha": 10, "charlie": 0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Merge(test.existing, test.scores)
			if !reflect.DeepEqual(got, test.expected) {
				t.Fatalf("expected: %v\tgot: %v", test.expected, got)
			}
		})
	}
}

func TestSorted(t *testing.T) {
	got := Sorted(map[string]int{"bravo": 5, "alpha": 5, "charlie": 40, "delta": 0})
	expected := []Entry{
		{Name: "charlie", Score: 40},
		{Name: "alpha", Score: 5},
		{Name: "bravo", Score: 5},
		{Name: "delta", Score: 0},
	}

	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected: %v\tgot: %v", expected, got)
	}
}
