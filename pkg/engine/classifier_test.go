package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"datableed/pkg/catalog"
)

func testCharacter() *catalog.Character {
	return &catalog.Character{
		ID:   "maya",
		Lore: "Maya is a college student whose account was compromised.",
		IntentRules: catalog.IntentRules{
			SuccessKeywords: []string{"sorry", "report"},
			FailKeywords:    []string{"click here", "password"},
		},
		Thresholds: catalog.Thresholds{WarnAfter: 2, FailAfter: 4},
	}
}

func TestClassify(t *testing.T) {
	char := testCharacter()

	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"success keyword", "I'm so sorry about that", IntentSuccess},
		{"success is case-insensitive", "I will REPORT this account", IntentSuccess},
		{"fail keyword", "just click here to win", IntentFail},
		{"fail substring inside word", "my PASSWORD123 is safe", IntentFail},
		{"no keyword", "how is your day going", IntentNeutral},
		{"empty message", "", IntentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message, char))
		})
	}
}

func TestClassify_SuccessBeatsFail(t *testing.T) {
	char := testCharacter()
	// Message matches both lists; Success must win the tie-break.
	got := Classify("sorry, but should I click here?", char)
	assert.Equal(t, IntentSuccess, got)
}

func TestClassify_EmptyKeywordLists(t *testing.T) {
	char := &catalog.Character{ID: "blank"}
	assert.Equal(t, IntentNeutral, Classify("anything at all", char))
}
