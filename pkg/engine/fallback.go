package engine

import (
	"fmt"
	"strings"
)

// FailureKind categorizes a failed model call by sniffing its error text.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureRateLimit
	FailureConnection
	FailureInvalidRequest
)

func (k FailureKind) String() string {
	switch k {
	case FailureRateLimit:
		return "rate_limit"
	case FailureConnection:
		return "connection"
	case FailureInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// failureRules are checked in order; the first matching substring wins, so
// an error mentioning both a rate limit and a timeout classifies as a rate
// limit. Keeping the list explicit makes the overlap testable.
var failureRules = []struct {
	substrings []string
	kind       FailureKind
}{
	{[]string{"rate limit", "429"}, FailureRateLimit},
	{[]string{"timeout", "connection"}, FailureConnection},
	{[]string{"invalid", "400"}, FailureInvalidRequest},
}

// ClassifyFailure maps a model-call error to a failure kind.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}
	text := strings.ToLower(err.Error())
	for _, rule := range failureRules {
		for _, sub := range rule.substrings {
			if strings.Contains(text, sub) {
				return rule.kind
			}
		}
	}
	return FailureUnknown
}

const (
	// fallbackEcho is how much of the user's message a canned reply quotes
	// back, preserving the illusion of contextual awareness.
	fallbackEcho = 30
	demoEcho     = 50
)

// LastResortReply is returned when everything else fails; the transport
// layer must never answer a chat request with silence.
const LastResortReply = "⚠️ I'm experiencing technical difficulties right now. Please try again in a moment."

var fallbackTemplates = map[FailureKind]map[string]string{
	FailureRateLimit: {
		"maya":    "⏳ Maya here - I'm getting a lot of messages right now. Give me a moment to process your message about '%s...' and I'll respond thoughtfully.",
		"eli":     "⏳ Eli speaking - Whoa, lots of activity! Let me catch up on your message about '%s...' Just need a sec to think it through.",
		"stanley": "⏳ Stanley here - I'm processing many conversations right now. Your message about '%s...' is important, just give me a moment.",
	},
	FailureConnection: {
		"maya":    "🔄 Maya here - I'm having some connection issues, but I caught your message about '%s...' Let me give you a quick response while I reconnect.",
		"eli":     "🔄 Eli speaking - Network's being wonky, but I heard you mention '%s...' Let me work with what I've got here.",
		"stanley": "🔄 Stanley here - Technical difficulties on my end, but regarding your message about '%s...' I can still help you out.",
	},
	FailureInvalidRequest: {
		"maya":    "🤔 Maya here - Something about your message '%s...' is causing me technical issues. Could you rephrase that?",
		"eli":     "🤔 Eli speaking - Your message '%s...' is breaking my brain a bit. Mind trying a different way to say that?",
		"stanley": "🤔 Stanley here - I'm having trouble processing '%s...' Could you try asking that differently?",
	},
	FailureUnknown: {
		"maya":    "⚠️ Maya here - I'm having some technical difficulties, but I understand you're asking about '%s...' Let me try to help despite the issues.",
		"eli":     "⚠️ Eli speaking - My AI systems are acting up, but I caught your message about '%s...' I'll do my best to respond.",
		"stanley": "⚠️ Stanley here - Technical problems on my end, but regarding '%s...' I'll give you what I can.",
	},
}

var genericFallbacks = map[FailureKind]string{
	FailureRateLimit:      "⏳ I'm experiencing high traffic right now. Please try again in a moment.",
	FailureConnection:     "🔄 I'm experiencing connection issues. Please try again shortly.",
	FailureInvalidRequest: "🤔 I'm having trouble understanding that request. Could you rephrase it?",
	FailureUnknown:        "⚠️ I'm experiencing technical difficulties. Please try again later.",
}

var demoTemplates = map[string]string{
	"maya":    "👋 Hi! I'm Maya. I received your message: '%s...' This is demo mode - add your OpenAI API key for full AI responses.",
	"eli":     "👋 Hey! Eli here. Got your message: '%s...' Running in demo mode - need OpenAI API key for smart responses.",
	"stanley": "👋 Hello! Stanley speaking. About your message: '%s...' This is demo mode - please configure OpenAI API key.",
}

const genericDemoReply = "👋 Demo mode - please configure OpenAI API key for full functionality."

// FallbackReply selects the canned response for a failed model call.
func FallbackReply(kind FailureKind, characterID, userMessage string) string {
	if tmpl, ok := fallbackTemplates[kind][characterID]; ok {
		return fmt.Sprintf(tmpl, truncate(userMessage, fallbackEcho))
	}
	return genericFallbacks[kind]
}

// DemoReply is used when no model credential was configured at startup.
func DemoReply(characterID, userMessage string) string {
	if tmpl, ok := demoTemplates[characterID]; ok {
		return fmt.Sprintf(tmpl, truncate(userMessage, demoEcho))
	}
	return genericDemoReply
}

// truncate keeps the first n characters, counted in runes so a multi-byte
// character is never split.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
