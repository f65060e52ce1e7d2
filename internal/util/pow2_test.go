package util

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		x    uint64
		want bool
	}{
		{0, false}, {1, true}, {2, true}, {3, false}, {8, true}, {1000, false}, {1024, true}, {1 << 63, true},
	} {
		if got := IsPowerOfTwo(tc.x); got != tc.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ a, b, want int }{
		{0, 4, 0}, {1, 4, 1}, {4, 4, 1}, {5, 4, 2}, {2500, 4096, 1}, {100, 7, 15},
	} {
		if got := CeilDiv(tc.a, tc.b); got != tc.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
