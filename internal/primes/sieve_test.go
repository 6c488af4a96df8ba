package primes

import (
	"reflect"
	"testing"
)

func TestBaseSieve(t *testing.T) {
	tests := []struct {
		name     string
		limit    uint64
		expected []uint64
	}{
		{"limit=10", 10, []uint64{2, 3, 5, 7}},
		{"limit=30", 30, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}},
		{"limit=2", 2, []uint64{2}},
		{"limit=1", 1, nil},
		{"limit=0", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BaseSieve(tt.limit)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("BaseSieve(%d) = %v, want %v", tt.limit, got, tt.expected)
			}
		})
	}
}

func TestEnumerateMatchesBaseSieve(t *testing.T) {
	const hi = 100_000
	base := BaseSieve(IsqrtCeil(hi))

	want := BaseSieve(hi)
	got := Collect(2, hi, base, 4096)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect(2,%d) diverges from BaseSieve(%d): got %d primes, want %d", hi, hi, len(got), len(want))
	}
}

func TestEnumerateWindow(t *testing.T) {
	// Primes in [100, 120]: 101, 103, 107, 109, 113.
	base := BaseSieve(IsqrtCeil(120))
	got := Collect(100, 120, base, 8)
	want := []uint64{101, 103, 107, 109, 113}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect(100,120) = %v, want %v", got, want)
	}
}

func TestEnumerateEmptyRange(t *testing.T) {
	base := BaseSieve(10)
	got := Collect(50, 49, base, 8)
	if len(got) != 0 {
		t.Errorf("Collect(50,49) = %v, want empty", got)
	}
}

func TestIsqrtCeil(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 2}, {1, 2}, {2, 2}, {4, 2}, {5, 3}, {100, 10}, {101, 11}, {99, 10},
	}
	for _, tt := range tests {
		if got := IsqrtCeil(tt.n); got != tt.want {
			t.Errorf("IsqrtCeil(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
