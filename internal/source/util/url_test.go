package util

import "testing"

func TestCanonicalURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"HTTPS://Jobs.Example.com/123?utm_source=alert&ref=a#apply", "https://jobs.example.com/123?ref=a"},
		{"https://x/1?b=2&a=1", "https://x/1?a=1&b=2"},
		{"  https://x/1  ", "https://x/1"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CanonicalURL(c.in); got != c.want {
			t.Errorf("CanonicalURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	if !IsAbsoluteURL("https://jobs.example.com/123") {
		t.Error("absolute url rejected")
	}
	if IsAbsoluteURL("/jobs/123") {
		t.Error("relative url accepted")
	}
	if IsAbsoluteURL("mailto:hr@example.com") {
		t.Error("non-http scheme accepted")
	}
}
