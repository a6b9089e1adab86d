package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/vats98754/auto-kg/backend/pkg/ai"
	"github.com/vats98754/auto-kg/backend/pkg/common"
)

var (
	ml    = common.Concept{ID: "machine_learning", Title: "Machine learning"}
	stats = common.Concept{ID: "statistic", Title: "statistics"}
)

func TestRuleBasedInfer(t *testing.T) {
	tests := []struct {
		name          string
		sentence      string
		wantType      common.RelationType
		wantSource    string
		wantTarget    string
		wantAboveBase bool
	}{
		{
			name:          "uses",
			sentence:      "Machine learning uses statistics to build models.",
			wantType:      common.Uses,
			wantSource:    "machine_learning",
			wantTarget:    "statistic",
			wantAboveBase: true,
		},
		{
			name:          "is a type of",
			sentence:      "Machine learning is a type of statistics applied at scale.",
			wantType:      common.IsTypeOf,
			wantSource:    "machine_learning",
			wantTarget:    "statistic",
			wantAboveBase: true,
		},
		{
			name:          "reversed trigger",
			sentence:      "Machine learning is used by statistics departments.",
			wantType:      common.Uses,
			wantSource:    "statistic",
			wantTarget:    "machine_learning",
			wantAboveBase: true,
		},
		{
			name:          "plain co-occurrence",
			sentence:      "Machine learning and statistics share history.",
			wantType:      common.RelatesTo,
			wantSource:    "machine_learning",
			wantTarget:    "statistic",
			wantAboveBase: false,
		},
	}

	inf := NewRuleBasedInferencer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := inf.Infer(context.Background(), ml, stats, tt.sentence)
			if err != nil {
				t.Fatalf("Infer: %v", err)
			}
			if rel == nil {
				t.Fatal("Infer returned nil relationship")
			}
			if rel.Type != tt.wantType {
				t.Errorf("type = %s, want %s", rel.Type, tt.wantType)
			}
			if rel.SourceID != tt.wantSource || rel.TargetID != tt.wantTarget {
				t.Errorf("direction = %s -> %s, want %s -> %s",
					rel.SourceID, rel.TargetID, tt.wantSource, tt.wantTarget)
			}
			if tt.wantAboveBase && rel.Confidence <= BaselineConfidence {
				t.Errorf("confidence = %f, want above baseline %f", rel.Confidence, BaselineConfidence)
			}
			if !tt.wantAboveBase && rel.Confidence != BaselineConfidence {
				t.Errorf("confidence = %f, want baseline %f", rel.Confidence, BaselineConfidence)
			}
			if rel.Evidence == "" {
				t.Error("evidence is empty")
			}
		})
	}
}

func TestRuleBasedInferNoCoOccurrence(t *testing.T) {
	inf := NewRuleBasedInferencer()
	rel, err := inf.Infer(context.Background(), ml, stats, "Machine learning stands alone here.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if rel != nil {
		t.Errorf("Infer = %+v, want nil when one concept is absent", rel)
	}
}

func TestRuleBasedInferReversedMentionOrder(t *testing.T) {
	inf := NewRuleBasedInferencer()
	rel, err := inf.Infer(context.Background(), ml, stats, "Modern statistics uses machine learning heavily.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if rel == nil {
		t.Fatal("Infer returned nil")
	}
	if rel.Type != common.Uses {
		t.Errorf("type = %s, want USES", rel.Type)
	}
	// statistics is mentioned first, so it is the stated subject
	if rel.SourceID != "statistic" || rel.TargetID != "machine_learning" {
		t.Errorf("direction = %s -> %s, want statistic -> machine_learning", rel.SourceID, rel.TargetID)
	}
}

func TestRuleBasedInferTitleWithCaseChangingLength(t *testing.T) {
	// U+1E9E lowercases to U+00DF, which is one byte shorter, so the
	// lowered sentence and the original title disagree on byte lengths
	sharp := common.Concept{ID: "sharp_theory", Title: "ẞẞ Theory"}

	inf := NewRuleBasedInferencer()
	rel, err := inf.Infer(context.Background(), sharp, stats, "ẞẞ Theory uses statistics.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if rel == nil {
		t.Fatal("Infer returned nil")
	}
	if rel.Type != common.Uses {
		t.Errorf("type = %s, want USES", rel.Type)
	}
	if rel.SourceID != "sharp_theory" || rel.TargetID != "statistic" {
		t.Errorf("direction = %s -> %s, want sharp_theory -> statistic", rel.SourceID, rel.TargetID)
	}
}

func TestTruncateEvidenceKeepsValidUTF8(t *testing.T) {
	long := "ab" + strings.Repeat("日", 100)
	got := truncateEvidence(long)
	if len(got) > maxEvidenceLen {
		t.Errorf("len = %d, want at most %d", len(got), maxEvidenceLen)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated evidence is not valid UTF-8: %q", got)
	}
	if !strings.HasPrefix(long, got) {
		t.Errorf("truncated evidence %q is not a prefix of the input", got)
	}
}

type failingAIClient struct{}

func (f *failingAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", errors.New("model unavailable")
}

func (f *failingAIClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	return errors.New("model unavailable")
}

func (f *failingAIClient) ResetMetrics()               {}
func (f *failingAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type cannedAIClient struct {
	payload string
}

func (c *cannedAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return c.payload, nil
}

func (c *cannedAIClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	return json.Unmarshal([]byte(c.payload), out)
}

func (c *cannedAIClient) ResetMetrics()               {}
func (c *cannedAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func TestLLMBackedInferFallsBackOnFailure(t *testing.T) {
	inf := NewLLMBackedInferencer(NewLLMBackedInferencerParams{
		Client: &failingAIClient{},
	})

	rel, err := inf.Infer(context.Background(), ml, stats, "Machine learning uses statistics daily.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if rel == nil {
		t.Fatal("Infer returned nil")
	}
	if rel.Type != common.Uses {
		t.Errorf("type = %s, want rule-based USES fallback", rel.Type)
	}
}

func TestLLMBackedInferPrefersHigherConfidence(t *testing.T) {
	inf := NewLLMBackedInferencer(NewLLMBackedInferencerParams{
		Client: &cannedAIClient{
			payload: `{"relationship_type":"INFLUENCES","confidence":0.95,"reversed":false,"justification":"shapes"}`,
		},
	})

	rel, err := inf.Infer(context.Background(), ml, stats, "Machine learning uses statistics daily.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if rel.Type != common.Influences {
		t.Errorf("type = %s, want model INFLUENCES override", rel.Type)
	}
	if rel.Confidence != 0.95 {
		t.Errorf("confidence = %f, want 0.95", rel.Confidence)
	}
}

func TestLLMBackedInferKeepsRulesOnLowerConfidence(t *testing.T) {
	inf := NewLLMBackedInferencer(NewLLMBackedInferencerParams{
		Client: &cannedAIClient{
			payload: `{"relationship_type":"INFLUENCES","confidence":0.1,"reversed":false,"justification":"weak"}`,
		},
	})

	rel, err := inf.Infer(context.Background(), ml, stats, "Machine learning uses statistics daily.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if rel.Type != common.Uses {
		t.Errorf("type = %s, want rule-based USES to win", rel.Type)
	}
}
