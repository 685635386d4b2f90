package web_search

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	cases := []struct {
		name string
		q    string
		ok   bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \t\n", false},
		{"at lower bound", "abcd", false},
		{"just above lower bound", "abcde", true},
		{"padded short query", "  ab  ", false},
		{"typical question", "Is the reported unemployment figure accurate?", true},
		{"just below upper bound", strings.Repeat("q", 399), true},
		{"at upper bound", strings.Repeat("q", 400), false},
		{"multibyte question", "Стало ли число безработных втрое больше за прошлый год?", true},
		{"long multibyte question", strings.Repeat("статистика ", 20), true},
		{"multibyte at upper bound", strings.Repeat("й", 400), false},
		{"above upper bound", strings.Repeat("q", 500), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuery(tc.q)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestNewWebSearcher(t *testing.T) {
	if _, err := NewWebSearcher(SerperProvider, "key"); err != nil {
		t.Fatalf("serper: %v", err)
	}
	if _, err := NewWebSearcher(BraveProvider, "key"); err != nil {
		t.Fatalf("brave: %v", err)
	}
	if _, err := NewWebSearcher(Provider("duckduckgo"), "key"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}
