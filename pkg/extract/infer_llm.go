package extract

import (
	"context"
	"time"

	"github.com/vats98754/auto-kg/backend/pkg/ai"
	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
)

const (
	defaultInferTimeout = 20 * time.Second
	defaultInferRetries = 2
)

// LLMBackedInferencer asks a language model to classify the relationship
// and keeps its answer only when it beats the rule-based confidence. Any
// model failure falls back to the rule-based result; callers never see
// the error.
type LLMBackedInferencer struct {
	rules   *RuleBasedInferencer
	client  ai.GraphAIClient
	timeout time.Duration
	retries int
}

// NewLLMBackedInferencerParams configures the model-backed inferencer.
// Zero values fall back to a 20 second timeout and 2 attempts.
type NewLLMBackedInferencerParams struct {
	Client  ai.GraphAIClient
	Timeout time.Duration
	Retries int
}

// NewLLMBackedInferencer wraps the rule-based inferencer with a model
// consultation step.
func NewLLMBackedInferencer(params NewLLMBackedInferencerParams) *LLMBackedInferencer {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultInferTimeout
	}
	retries := params.Retries
	if retries <= 0 {
		retries = defaultInferRetries
	}
	return &LLMBackedInferencer{
		rules:   NewRuleBasedInferencer(),
		client:  params.Client,
		timeout: timeout,
		retries: retries,
	}
}

// Infer runs the rule-based classification, then consults the model. The
// model's answer is used only when it is valid and strictly more
// confident than the rules.
func (l *LLMBackedInferencer) Infer(
	ctx context.Context,
	source common.Concept,
	target common.Concept,
	sentence string,
) (*common.Relationship, error) {
	ruleRel, err := l.rules.Infer(ctx, source, target, sentence)
	if err != nil || ruleRel == nil {
		return ruleRel, err
	}
	if l.client == nil {
		return ruleRel, nil
	}

	inferCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	suggestion, err := ai.CallInferAI(inferCtx, l.client, source.Title, target.Title, sentence, l.retries)
	if err != nil {
		logger.Debug("Model inference failed, keeping rule-based result",
			"source", source.ID, "target", target.ID, "error", err)
		return ruleRel, nil
	}
	if suggestion.Confidence <= ruleRel.Confidence {
		return ruleRel, nil
	}

	rel := common.Relationship{
		SourceID:   source.ID,
		TargetID:   target.ID,
		Type:       suggestion.Type,
		Confidence: suggestion.Confidence,
		Evidence:   truncateEvidence(suggestion.Evidence),
	}
	if suggestion.Reversed {
		rel.SourceID, rel.TargetID = rel.TargetID, rel.SourceID
	}
	return &rel, nil
}
