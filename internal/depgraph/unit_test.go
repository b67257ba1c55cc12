package depgraph

import "testing"

func TestContainsMain(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"int main() { return 0; }", true},
		{"void main(void) {}", true},
		{"int not_main() { return 0; }", false},
		{"", false},
	}
	for _, c := range cases {
		u := &SourceUnit{text: []byte(c.text)}
		if got := u.ContainsMain(); got != c.want {
			t.Errorf("ContainsMain(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestKindForSuffix(t *testing.T) {
	cases := map[string]Kind{
		"a.h":   Header,
		"a.hpp": Header,
		"a.c":   Source,
		"a.cpp": Source,
		"a.cc":  Source,
	}
	for path, want := range cases {
		got, ok := kindForSuffix(path)
		if !ok || got != want {
			t.Errorf("kindForSuffix(%q) = (%v, %v), want (%v, true)", path, got, ok, want)
		}
	}

	if _, ok := kindForSuffix("a.txt"); ok {
		t.Errorf("kindForSuffix(a.txt) should be rejected")
	}
}
