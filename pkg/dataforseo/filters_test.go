package dataforseo

import (
	"encoding/json"
	"testing"
)

func TestBuildNegativeFilters_Empty(t *testing.T) {
	if got := buildNegativeFilters(nil); got != nil {
		t.Errorf("Expected nil for empty negatives, got %v", got)
	}
}

func TestBuildNegativeFilters_Single(t *testing.T) {
	got, err := json.Marshal(buildNegativeFilters([]string{"login"}))
	if err != nil {
		t.Fatal(err)
	}
	want := `["keyword","not_like","%login%"]`
	if string(got) != want {
		t.Errorf("Single filter = %s, want %s", got, want)
	}
}

func TestBuildNegativeFilters_Multiple(t *testing.T) {
	got, err := json.Marshal(buildNegativeFilters([]string{"login", "crack"}))
	if err != nil {
		t.Fatal(err)
	}
	want := `[["keyword","not_like","%login%"],"and",["keyword","not_like","%crack%"]]`
	if string(got) != want {
		t.Errorf("Multi filter = %s, want %s", got, want)
	}
}
