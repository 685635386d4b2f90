package web_search

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mohammad-safakhou/veritas/tools/web_search/brave"
	"github.com/mohammad-safakhou/veritas/tools/web_search/models"
	"github.com/mohammad-safakhou/veritas/tools/web_search/serper"
)

type WebSearcher interface {
	Search(ctx context.Context, q string, k int, sites []string) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

// Query length policy: queries at or below MinQueryLength or at or above
// MaxQueryLength characters are rejected before submission. Lengths are
// counted in characters, not bytes.
const (
	MinQueryLength = 4
	MaxQueryLength = 400
)

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrInvalidQuery        = errors.New("query length outside allowed bounds")
)

// ValidateQuery enforces the length policy on a candidate query string.
func ValidateQuery(q string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(q))
	if n <= MinQueryLength || n >= MaxQueryLength {
		return ErrInvalidQuery
	}
	return nil
}

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
