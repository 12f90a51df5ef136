package env

import "testing"

func TestGetReturnsFallbackWhenUnset(t *testing.T) {
	if got := Get("BROKERLANE_TEST_UNSET_VAR", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetReturnsValueWhenSet(t *testing.T) {
	t.Setenv("BROKERLANE_TEST_SET_VAR", "console")
	if got := Get("BROKERLANE_TEST_SET_VAR", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}
