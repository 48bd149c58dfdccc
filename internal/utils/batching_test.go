package utils

import "testing"

func TestChunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []int
		size  int
		want  []int
	}{
		{name: "even", items: []int{1, 2, 3, 4}, size: 2, want: []int{2, 2}},
		{name: "remainder", items: []int{1, 2, 3, 4, 5}, size: 2, want: []int{2, 2, 1}},
		{name: "larger than input", items: []int{1, 2}, size: 10, want: []int{2}},
		{name: "empty", items: nil, size: 3, want: nil},
		{name: "non-positive size", items: []int{1, 2, 3}, size: 0, want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Chunk(tt.items, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d batches, want %d", len(got), len(tt.want))
			}
			for i, b := range got {
				if len(b) != tt.want[i] {
					t.Errorf("batch %d has %d items, want %d", i, len(b), tt.want[i])
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 3, "hel"},
		{"hello", 5, "hello"},
		{"hello", 10, "hello"},
		{"héllo", 2, "hé"},
		{"hello", 0, ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
