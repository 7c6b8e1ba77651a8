package usecase

import (
	"strings"
	"testing"
)

func TestExpandQueryAppendsSynonyms(t *testing.T) {
	expanded := ExpandQuery("pto policy")
	if !strings.HasPrefix(expanded, "pto policy") {
		t.Fatalf("expected original query preserved as prefix, got %q", expanded)
	}
	if !strings.Contains(expanded, "paid time off") || !strings.Contains(expanded, "vacation") {
		t.Fatalf("expected first two synonyms appended, got %q", expanded)
	}
	if strings.Contains(expanded, "leave") {
		t.Fatalf("expected synonym expansion capped at two per token, got %q", expanded)
	}
}

func TestExpandQueryStripsPunctuationBeforeLookup(t *testing.T) {
	expanded := ExpandQuery("what is PTO?")
	if !strings.Contains(expanded, "paid time off") {
		t.Fatalf("expected punctuation-stripped token to match, got %q", expanded)
	}
}

func TestExpandQueryNoMatches(t *testing.T) {
	query := "quarterly revenue projections"
	if expanded := ExpandQuery(query); expanded != query {
		t.Fatalf("expected unchanged query, got %q", expanded)
	}
}
