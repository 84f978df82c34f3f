package coerce

import "testing"

func TestText(t *testing.T) {
	if got := Text("plain"); got != "plain" {
		t.Fatalf("expected string passthrough, got %q", got)
	}
	if got := Text(15); got != "15" {
		t.Fatalf("expected int to stringify, got %q", got)
	}
	if got := Text(4.3); got != "4.3" {
		t.Fatalf("expected float to stringify, got %q", got)
	}
	if got := Text(true); got != "true" {
		t.Fatalf("expected bool to stringify, got %q", got)
	}
}

func TestBoolIsLax(t *testing.T) {
	for _, text := range []string{"true", "TRUE", "True", "tRuE"} {
		if !Bool(text) {
			t.Fatalf("expected %q to parse true", text)
		}
	}
	// Everything that is not literally "true" is false, including
	// surrounding whitespace; the parse never fails.
	for _, text := range []string{"false", "yes", "1", "not-a-bool", "", " true"} {
		if Bool(text) {
			t.Fatalf("expected %q to parse false", text)
		}
	}
}

func TestInt(t *testing.T) {
	if n, ok := Int("15"); !ok || n != 15 {
		t.Fatalf("expected 15, got %d ok=%v", n, ok)
	}
	if n, ok := Int("-3"); !ok || n != -3 {
		t.Fatalf("expected -3, got %d ok=%v", n, ok)
	}
	for _, text := range []string{"not-a-number", "4.3", "", "0x10"} {
		if _, ok := Int(text); ok {
			t.Fatalf("expected %q to fail", text)
		}
	}
}

func TestFloat(t *testing.T) {
	if f, ok := Float("4.3"); !ok || f != 4.3 {
		t.Fatalf("expected 4.3, got %v ok=%v", f, ok)
	}
	if f, ok := Float("15"); !ok || f != 15.0 {
		t.Fatalf("expected 15.0, got %v ok=%v", f, ok)
	}
	if _, ok := Float("not-a-number"); ok {
		t.Fatalf("expected parse failure")
	}
}
