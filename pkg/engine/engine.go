package engine

import (
	"context"
	"errors"

	"datableed/pkg/catalog"
)

// ErrUnknownCharacter is returned when a chat references a character id the
// catalog doesn't have. The transport layer validates before calling the
// engine, so seeing this error means a caller skipped validation.
var ErrUnknownCharacter = errors.New("unknown character")

// Engine ties the catalog, session store and orchestrator into the two
// operations the transport layer consumes.
type Engine struct {
	catalog  *catalog.Catalog
	sessions *Store
	orch     *Orchestrator
}

func New(cat *catalog.Catalog, completer Completer) *Engine {
	return &Engine{
		catalog:  cat,
		sessions: NewStore(),
		orch:     NewOrchestrator(completer),
	}
}

// ChatResult is the full outcome of one exchange.
type ChatResult struct {
	Reply        string
	TrustScore   int
	Persona      Persona
	Outcome      Outcome
	UsedFallback bool
}

// HandleChat runs one exchange: classify the message, commit the state
// transition, compose the prompt, generate the reply.
//
// The classification-driven transition commits under the session lock
// before the (slow) model call, so the lock is never held across the
// network. Whether the call fell back is only known afterwards; when it did
// and the message classified Neutral, the fallback nudge is applied as a
// second atomic commit. Each commit is all-or-nothing.
func (e *Engine) HandleChat(ctx context.Context, sessionID, characterID, message string) (ChatResult, error) {
	char, ok := e.catalog.Get(characterID)
	if !ok {
		return ChatResult{}, ErrUnknownCharacter
	}

	intent := Classify(message, char)

	var outcome Outcome
	snap := e.sessions.Update(sessionID, char.ID, func(s *Session) {
		outcome = ApplyIntent(s, char.Thresholds, intent)
	})

	persona := PersonaFor(snap.TrustScore)
	prompt := BuildSystemPrompt(PersonaPrompt(persona), char.Lore, DefaultGuardrails)
	if answer, ok := char.MatchKnowledge(message); ok {
		prompt = AppendKnowledge(prompt, answer)
	} else if answer, ok := e.catalog.MatchGlobalKnowledge(message); ok {
		prompt = AppendKnowledge(prompt, answer)
	}

	reply, usedFallback := e.orch.Generate(ctx, char.ID, message, prompt)

	if usedFallback && intent == IntentNeutral {
		snap = e.sessions.Update(sessionID, char.ID, func(s *Session) {
			outcome = ApplyFallbackNudge(s, char.Thresholds)
		})
	}

	return ChatResult{
		Reply:        reply,
		TrustScore:   snap.TrustScore,
		Persona:      PersonaFor(snap.TrustScore),
		Outcome:      outcome,
		UsedFallback: usedFallback,
	}, nil
}

// HandleReset removes the session and reports whether it existed.
func (e *Engine) HandleReset(sessionID string) bool {
	return e.sessions.Reset(sessionID)
}

// SessionCount reports how many sessions are live, for health reporting.
func (e *Engine) SessionCount() int {
	return e.sessions.Len()
}

// DemoMode reports whether the model capability was never configured.
func (e *Engine) DemoMode() bool {
	return e.orch.DemoMode()
}
