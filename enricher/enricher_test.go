package enricher_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Emathyran/daily-news/enricher"
	"github.com/Emathyran/daily-news/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func newRunResult(articles ...*models.Article) *models.RunResult {
	return &models.RunResult{Sections: []models.Section{
		{Category: "经济", Articles: articles},
	}}
}

func TestEnrichPromptContents(t *testing.T) {
	var gotPrompt string
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "生成的分析", nil
	})

	article := &models.Article{Source: "CafeF", Title: "股市上涨", Summary: "市场回顾"}
	outcome := enricher.New(gen).Enrich(context.Background(), article)

	require.NoError(t, outcome.Err)
	assert.Equal(t, "生成的分析", outcome.Text)
	assert.Contains(t, gotPrompt, "新闻来源: CafeF")
	assert.Contains(t, gotPrompt, "标题: 股市上涨")
	assert.Contains(t, gotPrompt, "原文摘要: 市场回顾")

	// Enrich alone must not finalize the article
	assert.Empty(t, article.Analysis)
}

func TestEnrichAllFinalizesEveryArticle(t *testing.T) {
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "坏消息") {
			return "", errors.New("quota exceeded")
		}
		if strings.Contains(prompt, "空结果") {
			return "  \n", nil
		}
		return "一句分析。", nil
	})

	ok := &models.Article{Source: "A", Title: "好消息"}
	failed := &models.Article{Source: "A", Title: "坏消息"}
	empty := &models.Article{Source: "B", Title: "空结果"}
	result := newRunResult(ok, failed, empty)

	outcomes := enricher.New(gen).EnrichAll(context.Background(), result)

	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.ErrorIs(t, outcomes[2].Err, enricher.ErrEmptyAnalysis)

	assert.Equal(t, "一句分析。", ok.Analysis)
	assert.Equal(t, enricher.Fallback, failed.Analysis)
	assert.Equal(t, enricher.Fallback, empty.Analysis)

	// No article leaves enrichment without an analysis
	for _, article := range result.Articles() {
		assert.NotEmpty(t, article.Analysis)
	}
}

func TestEnrichAllTruncatesLongAnalysis(t *testing.T) {
	long := strings.Repeat("析", 500)
	gen := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return long, nil
	})

	article := &models.Article{Source: "A", Title: "标题"}
	enricher.New(gen).EnrichAll(context.Background(), newRunResult(article))

	assert.Equal(t, enricher.AnalysisMaxRunes, len([]rune(article.Analysis)))
	assert.Equal(t, strings.Repeat("析", enricher.AnalysisMaxRunes), article.Analysis)
}
