package main

import (
	"strings"
	"testing"
)

func TestBarbTable(t *testing.T) {
	out := barbTable(10, 2.5)
	for _, want := range []string{"m/s", "knot0", "knot5", "knot15", "10.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}
}
