package validate

import "testing"

func TestTextBytes(t *testing.T) {
	if err := TextBytes("text", "abc", 3); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := TextBytes("text", "abcd", 3); err == nil {
		t.Error("over limit: expected error")
	}
	if err := TextBytes("text", "abcd", 0); err != nil {
		t.Errorf("disabled limit: %v", err)
	}
}

func TestRequired(t *testing.T) {
	if err := Required("name", "x"); err != nil {
		t.Errorf("non-empty: %v", err)
	}
	if err := Required("name", "  \t"); err == nil {
		t.Error("whitespace: expected error")
	}
}

func TestOneOf(t *testing.T) {
	if err := OneOf("mode", "line", "line", "word"); err != nil {
		t.Errorf("allowed value: %v", err)
	}
	if err := OneOf("mode", "char", "line", "word"); err == nil {
		t.Error("disallowed value: expected error")
	}
}

func TestTokenCount(t *testing.T) {
	if err := TokenCount("text", 10, 10); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := TokenCount("text", 11, 10); err == nil {
		t.Error("over limit: expected error")
	}
}
