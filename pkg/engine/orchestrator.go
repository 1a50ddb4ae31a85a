package engine

import (
	"context"
	"log/slog"
)

// Completer is the external language-model capability. Implementations must
// return the model text verbatim or an error describing the failure.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Orchestrator invokes the model and absorbs every failure into a canned
// reply plus a flag. It never returns an error: failure resolves to data.
type Orchestrator struct {
	completer Completer
}

// NewOrchestrator wraps a completer. A nil completer puts the orchestrator
// in demo mode for the life of the process: the model is never called and
// every reply is canned.
func NewOrchestrator(c Completer) *Orchestrator {
	return &Orchestrator{completer: c}
}

// DemoMode reports whether the orchestrator skips live calls entirely.
func (o *Orchestrator) DemoMode() bool {
	return o.completer == nil
}

// Generate produces the reply text for one exchange. usedFallback is true
// whenever the returned text did not come from a live model call.
func (o *Orchestrator) Generate(ctx context.Context, characterID, userMessage, systemPrompt string) (reply string, usedFallback bool) {
	if o.completer == nil {
		return DemoReply(characterID, userMessage), true
	}

	text, err := o.completer.Complete(ctx, systemPrompt, userMessage)
	if err != nil {
		kind := ClassifyFailure(err)
		slog.Warn("Model call failed, using fallback",
			"character", characterID, "kind", kind.String(), "error", err)
		return FallbackReply(kind, characterID, userMessage), true
	}
	return text, false
}
