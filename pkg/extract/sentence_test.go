package extract

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
		{
			name: "single sentence",
			text: "Calculus is the study of change.",
			want: []string{"Calculus is the study of change."},
		},
		{
			name: "multiple sentences",
			text: "Calculus is old. Algebra is older! Is geometry oldest?",
			want: []string{"Calculus is old.", "Algebra is older!", "Is geometry oldest?"},
		},
		{
			name: "abbreviation not a boundary",
			text: "Some fields, e.g. topology, are abstract. Others are not.",
			want: []string{"Some fields, e.g. topology, are abstract.", "Others are not."},
		},
		{
			name: "decimal point not a boundary",
			text: "The value is 3.14 by convention. It never changes.",
			want: []string{"The value is 3.14 by convention.", "It never changes."},
		},
		{
			name: "trailing text without punctuation",
			text: "First sentence. second fragment",
			want: []string{"First sentence.", "second fragment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitSentencesDeterministic(t *testing.T) {
	text := "Machine learning uses statistics. Statistics uses calculus."
	first := SplitSentences(text)
	second := SplitSentences(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated splits differ: %v vs %v", first, second)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Machine learning, at scale!")
	want := []string{"machine", "learning", "at", "scale"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}
