package pipeline

import (
	"github.com/mohammad-safakhou/veritas/config"
	"github.com/mohammad-safakhou/veritas/provider"
	"github.com/mohammad-safakhou/veritas/tools/web_search"
)

// DefaultStages builds the verification pipeline in its fixed order. Stage
// order is the data-dependency order; reordering breaks the precondition
// contract between stages.
func DefaultStages(cfg *config.Config, llm provider.Provider, searcher web_search.WebSearcher) []Stage {
	model := cfg.LLM.CompletionModel
	summaryModel := cfg.LLM.SummaryModel
	if summaryModel == "" {
		summaryModel = model
	}
	domains := cfg.Search.TrustedDomains
	if len(domains) == 0 {
		domains = config.DefaultTrustedDomains
	}

	return []Stage{
		NewClarifyStage(llm, model),
		NewReasonStage(llm, model),
		NewDecomposeStage(llm, model),
		NewQuestionsStage(llm, model, cfg.Pipeline.MaxResearchQuestions),
		NewResearchStage(searcher, domains, cfg.Search.MaxResults, cfg.Pipeline.ResearchPause),
		NewAnalyzeStage(llm, model),
		NewArgumentsStage(llm, model),
		NewDraftStage(llm, model),
		NewObjectivityStage(llm, model),
		NewVisualizeStage(),
		NewSummarizeStage(llm, summaryModel, cfg.Pipeline.SummaryChunkTokens),
	}
}
