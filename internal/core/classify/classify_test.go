package classify

import "testing"

func TestIsConnectedBoundary(t *testing.T) {
	cases := []struct {
		count, threshold int64
		want             bool
	}{
		{0, 3, false},
		{3, 3, false},
		{4, 3, true},
		{1, 0, true},
		{0, 0, false},
		{100, 99, true},
	}
	for _, c := range cases {
		if got := IsConnected(c.count, c.threshold); got != c.want {
			t.Fatalf("IsConnected(%d, %d) = %v, want %v", c.count, c.threshold, got, c.want)
		}
	}
}

func TestStatus(t *testing.T) {
	for _, in := range []string{"", "all"} {
		if st, err := ParseStatus(in); err != nil || st != StatusAll {
			t.Fatalf("ParseStatus(%q) = %q, %v", in, st, err)
		}
	}
	if _, err := ParseStatus("warm"); err == nil {
		t.Fatalf("expected error for unknown status")
	}

	if !StatusConnected.Match(4, 3) || StatusConnected.Match(3, 3) {
		t.Fatalf("connected filter uses > threshold")
	}
	if !StatusCold.Match(3, 3) || StatusCold.Match(4, 3) {
		t.Fatalf("cold filter uses <= threshold")
	}
	if !StatusAll.Match(0, 3) {
		t.Fatalf("all matches everything")
	}
}
