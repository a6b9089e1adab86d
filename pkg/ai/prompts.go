package ai

// InferPrompt asks the model to classify the relationship between two
// concepts given the sentence in which they co-occur. The placeholders
// are: allowed relationship types, source concept, target concept.
const InferPrompt = `You classify the relationship between two concepts based on a sentence in which both appear.

Allowed relationship types: %s

Source concept: %s
Target concept: %s

Rules:
- Pick exactly one relationship type from the allowed list.
- The relationship is directed from the source concept to the target concept. If the sentence expresses the relation in the opposite direction, set "reversed" to true.
- Confidence is a value between 0 and 1. Use high values only when the sentence states the relation explicitly.
- Quote the shortest fragment of the sentence that justifies your choice.
- If the sentence expresses no meaningful relation beyond co-occurrence, use RELATES_TO with low confidence.`

// InferUserPrompt carries the sentence to classify.
const InferUserPrompt = `Sentence: %s`
