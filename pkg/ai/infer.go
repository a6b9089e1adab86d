package ai

import (
	"context"
	"fmt"
	"strings"

	gUtil "github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/common"
)

// InferSuggestion is the model's answer for a single concept pair.
type InferSuggestion struct {
	Type       common.RelationType
	Confidence float64
	Evidence   string
	Reversed   bool
}

type inferResponse struct {
	RelationshipType string  `json:"relationship_type" jsonschema_description:"One of the allowed relationship types."`
	Confidence       float64 `json:"confidence" jsonschema_description:"Confidence between 0 and 1 that the relationship holds."`
	Reversed         bool    `json:"reversed" jsonschema_description:"True if the relation runs from target to source instead."`
	Justification    string  `json:"justification" jsonschema_description:"Shortest sentence fragment that justifies the relationship."`
}

// CallInferAI asks the model to classify the relationship between two
// concepts co-occurring in a sentence. The result is validated against
// the fixed relationship vocabulary; anything outside it is an error so
// the caller can fall back to the rule-based classification.
func CallInferAI(
	ctx context.Context,
	client GraphAIClient,
	source string,
	target string,
	sentence string,
	maxRetries int,
) (*InferSuggestion, error) {
	if client == nil {
		return nil, fmt.Errorf("ai client is nil")
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	typeNames := make([]string, 0, len(common.RelationTypes))
	for _, t := range common.RelationTypes {
		typeNames = append(typeNames, string(t))
	}

	systemPrompt := fmt.Sprintf(InferPrompt, strings.Join(typeNames, ", "), source, target)
	prompt := fmt.Sprintf(InferUserPrompt, NormalizeValue(sentence))

	var res inferResponse
	err := gUtil.RetryErrWithContext(ctx, maxRetries, func(ctx context.Context) error {
		return client.GenerateCompletionWithFormat(
			ctx,
			"infer_relationship",
			"Classify the relationship between two concepts in a sentence.",
			prompt,
			&res,
			WithSystemPrompts(systemPrompt),
		)
	})
	if err != nil {
		return nil, err
	}

	relType := common.RelationType(strings.ToUpper(NormalizeValue(res.RelationshipType)))
	relType = common.RelationType(strings.ReplaceAll(string(relType), " ", "_"))
	if !common.ValidRelationType(relType) {
		return nil, fmt.Errorf("model returned unknown relationship type: %q", res.RelationshipType)
	}
	if res.Confidence < 0 || res.Confidence > 1 {
		return nil, fmt.Errorf("model returned confidence out of range: %f", res.Confidence)
	}

	evidence := NormalizeValue(res.Justification)
	if evidence == "" {
		evidence = NormalizeValue(sentence)
	}

	return &InferSuggestion{
		Type:       relType,
		Confidence: res.Confidence,
		Evidence:   evidence,
		Reversed:   res.Reversed,
	}, nil
}
