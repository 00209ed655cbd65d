package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OW-Research/llmsgen/internal/domain"
	"github.com/OW-Research/llmsgen/internal/utils"
)

// Chain runs the staged summarization that turns gathered repository
// information into llms.txt content. Stages run sequentially because
// each one consumes the previous stage's output:
//
//  1. analyze the repository purpose and concepts
//  2. analyze the code structure
//  3. derive usage examples from the purpose analysis
//  4. generate the final llms.txt
type Chain struct {
	provider domain.LLMProvider
	logger   *utils.Logger
}

// NewChain creates a summarization chain backed by the given provider
func NewChain(provider domain.LLMProvider, logger *utils.Logger) *Chain {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Chain{
		provider: provider,
		logger:   logger.WithComponent("chain"),
	}
}

// Summarize runs all stages and returns the finished digest.
func (c *Chain) Summarize(ctx context.Context, info *domain.RepositoryInfo) (*domain.Digest, error) {
	repoAnalysis, err := c.complete(ctx, "analyze-repository", analyzeRepositoryPrompt(info))
	if err != nil {
		return nil, err
	}

	structureAnalysis, err := c.complete(ctx, "analyze-structure", analyzeStructurePrompt(info))
	if err != nil {
		return nil, err
	}

	usageExamples, err := c.complete(ctx, "usage-examples", usageExamplesPrompt(repoAnalysis))
	if err != nil {
		return nil, err
	}

	content, err := c.complete(ctx, "generate-llms-txt", generateLLMsTxtPrompt(info, repoAnalysis, structureAnalysis, usageExamples))
	if err != nil {
		return nil, err
	}

	return &domain.Digest{
		Ref:         info.Ref,
		Content:     strings.TrimSpace(content) + "\n",
		GeneratedAt: time.Now(),
		Model:       c.provider.Name(),
	}, nil
}

func (c *Chain) complete(ctx context.Context, stage, prompt string) (string, error) {
	c.logger.Debug().Str("stage", stage).Int("prompt_chars", len(prompt)).Msg("running stage")

	resp, err := c.provider.Complete(ctx, &domain.LLMRequest{
		Messages: []domain.LLMMessage{
			{Role: domain.RoleSystem, Content: analystSystemPrompt},
			{Role: domain.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("stage %s failed: %w", stage, err)
	}

	c.logger.Debug().
		Str("stage", stage).
		Int("tokens", resp.Usage.TotalTokens).
		Msg("stage complete")

	return resp.Content, nil
}
