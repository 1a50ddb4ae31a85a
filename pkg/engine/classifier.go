// Package engine implements the per-session decision core: intent
// classification, trust/outcome state transitions, prompt composition and
// the generation pipeline with its fallback ladder.
package engine

import (
	"strings"

	"datableed/pkg/catalog"
)

// Intent is the classification of a single user message.
type Intent int

const (
	IntentNeutral Intent = iota
	IntentSuccess
	IntentFail
)

func (i Intent) String() string {
	switch i {
	case IntentSuccess:
		return "success"
	case IntentFail:
		return "fail"
	default:
		return "neutral"
	}
}

// Classify maps a raw message to an intent using the character's keyword
// lists. Pure case-insensitive substring containment, no tokenization.
// Success is checked before Fail: a message matching both lists is Success.
func Classify(message string, char *catalog.Character) Intent {
	if containsAny(message, char.IntentRules.SuccessKeywords) {
		return IntentSuccess
	}
	if containsAny(message, char.IntentRules.FailKeywords) {
		return IntentFail
	}
	return IntentNeutral
}

func containsAny(text string, keywords []string) bool {
	t := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(t, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
