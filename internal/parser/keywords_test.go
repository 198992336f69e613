package parser

import (
	"reflect"
	"testing"
)

var testCatalog = KeywordCatalog{
	"Incident Type": {"outage", "breach", "failure", "error"},
	"Priority":      {"high", "medium", "low", "critical", "urgent"},
	"Status":        {"resolved", "ongoing", "investigating", "mitigated"},
}

func TestMatchKeywords(t *testing.T) {
	text := "We had a system Outage. Priority: High. Status: Ongoing, team is investigating."

	got := MatchKeywords(text, testCatalog)
	want := map[string][]string{
		"Incident Type": {"outage"},
		"Priority":      {"high"},
		"Status":        {"ongoing", "investigating"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMatchKeywordsOmitsEmptyCategories(t *testing.T) {
	got := MatchKeywords("nothing relevant", KeywordCatalog{"A": {"x"}})
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if _, ok := got["A"]; ok {
		t.Fatalf("category with no matches must be omitted")
	}
}

func TestMatchKeywordsWholeWordsOnly(t *testing.T) {
	got := MatchKeywords("the outage lasted an hour", KeywordCatalog{"T": {"out", "outage"}})
	want := map[string][]string{"T": {"outage"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
