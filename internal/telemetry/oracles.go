package telemetry

import (
	"context"

	"github.com/mohammad-safakhou/veritas/provider"
	"github.com/mohammad-safakhou/veritas/tools/web_search"
	searchmodels "github.com/mohammad-safakhou/veritas/tools/web_search/models"
)

// InstrumentProvider wraps an LLM provider so every call is counted.
func InstrumentProvider(p provider.Provider, t *Telemetry) provider.Provider {
	if t == nil {
		return p
	}
	return &instrumentedProvider{inner: p, tele: t}
}

type instrumentedProvider struct {
	inner provider.Provider
	tele  *Telemetry
}

func (p *instrumentedProvider) Generate(ctx context.Context, messages []provider.Message, opts provider.Options) (string, error) {
	out, err := p.inner.Generate(ctx, messages, opts)
	p.tele.RecordOracleCall("llm", err)
	return out, err
}

// InstrumentSearcher wraps a web searcher so every call is counted.
func InstrumentSearcher(s web_search.WebSearcher, t *Telemetry) web_search.WebSearcher {
	if t == nil {
		return s
	}
	return &instrumentedSearcher{inner: s, tele: t}
}

type instrumentedSearcher struct {
	inner web_search.WebSearcher
	tele  *Telemetry
}

func (s *instrumentedSearcher) Search(ctx context.Context, q string, k int, sites []string) ([]searchmodels.Result, error) {
	out, err := s.inner.Search(ctx, q, k, sites)
	s.tele.RecordOracleCall("search", err)
	return out, err
}
