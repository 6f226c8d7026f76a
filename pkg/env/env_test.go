package env

import "testing"

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("AUTOSHOP_TEST_PRIMARY", "")
	t.Setenv("AUTOSHOP_TEST_SECONDARY", "second")
	if got := First("fallback", "AUTOSHOP_TEST_PRIMARY", "AUTOSHOP_TEST_SECONDARY"); got != "second" {
		t.Fatalf("expected second got %q", got)
	}
	t.Setenv("AUTOSHOP_TEST_PRIMARY", "first")
	if got := First("fallback", "AUTOSHOP_TEST_PRIMARY", "AUTOSHOP_TEST_SECONDARY"); got != "first" {
		t.Fatalf("expected first got %q", got)
	}
}

func TestGetFallsBack(t *testing.T) {
	t.Setenv("AUTOSHOP_TEST_UNSET", "")
	if got := Get("AUTOSHOP_TEST_UNSET", "json"); got != "json" {
		t.Fatalf("expected fallback got %q", got)
	}
}
