// Package enricher attaches a generated Chinese analysis to every collected
// article, substituting a fixed fallback marker when generation fails.
package enricher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Emathyran/daily-news/models"

	log "github.com/sirupsen/logrus"
)

// Fallback replaces the analysis when generation fails.
const Fallback = "摘要生成失败"

// AnalysisMaxRunes caps the generated analysis text.
const AnalysisMaxRunes = 300

// ErrEmptyAnalysis marks a generation call that succeeded but produced no text.
var ErrEmptyAnalysis = errors.New("generator returned empty text")

const promptTemplate = `请用中文为以下新闻生成100字左右的摘要。摘要应该简洁、准确、突出核心观点。

新闻来源: %s
标题: %s
原文摘要: %s

请直接输出中文摘要，不需要其他说明。`

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Enricher struct {
	generator Generator
}

func New(generator Generator) *Enricher {
	return &Enricher{generator: generator}
}

// Outcome records the result of enriching a single article.
type Outcome struct {
	Article *models.Article
	Text    string
	Err     error
}

// Enrich generates an analysis for one article. The outcome carries either
// the generated text or the error; the article itself is not modified.
func (e *Enricher) Enrich(ctx context.Context, article *models.Article) Outcome {
	prompt := fmt.Sprintf(promptTemplate, article.Source, article.Title, article.Summary)

	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return Outcome{Article: article, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return Outcome{Article: article, Err: ErrEmptyAnalysis}
	}
	return Outcome{Article: article, Text: truncateRunes(text, AnalysisMaxRunes)}
}

// EnrichAll enriches every article in the run result, one at a time, and
// finalizes each: afterwards every article holds either generated text or
// the fallback marker, never an empty analysis. A failed article never
// affects its siblings.
func (e *Enricher) EnrichAll(ctx context.Context, result *models.RunResult) []Outcome {
	articles := result.Articles()
	outcomes := make([]Outcome, 0, len(articles))

	for _, article := range articles {
		outcome := e.Enrich(ctx, article)
		if outcome.Err != nil {
			log.WithFields(log.Fields{
				"source": article.Source,
				"title":  truncateRunes(article.Title, 50),
				"error":  outcome.Err,
			}).Error("Analysis generation failed")
			article.Analysis = Fallback
		} else {
			article.Analysis = outcome.Text
			log.WithFields(log.Fields{
				"source": article.Source,
				"title":  truncateRunes(article.Title, 50),
			}).Info("Processed article")
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
