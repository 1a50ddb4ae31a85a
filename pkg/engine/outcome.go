package engine

import "datableed/pkg/catalog"

// Outcome is the narrative result of one exchange.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
	OutcomeNeutral Outcome = "neutral"
)

// Persona is the voice currently speaking for the character.
type Persona string

const (
	PersonaGuardian Persona = "guardian"
	PersonaDeceiver Persona = "deceiver"
)

const (
	// TrustStep is how far one classified exchange moves the trust score.
	TrustStep = 20

	// MaxEscalationStage caps the narrative intensity ramp.
	MaxEscalationStage = 5
)

// ApplyIntent mutates the session per the classified intent and returns the
// outcome. Must run inside Store.Update so the read-modify-write is atomic
// per session.
func ApplyIntent(s *Session, th catalog.Thresholds, intent Intent) Outcome {
	switch intent {
	case IntentSuccess:
		if s.WrongCount > 0 {
			s.WrongCount--
		}
		s.EscalationStage = 1
		s.TrustScore -= TrustStep
		return OutcomeSuccess
	case IntentFail:
		s.WrongCount++
		if s.EscalationStage < MaxEscalationStage {
			s.EscalationStage++
		}
		s.TrustScore += TrustStep
		if s.WrongCount >= th.FailAfter {
			return OutcomeFail
		}
		return OutcomeNeutral
	default:
		return OutcomeNeutral
	}
}

// ApplyFallbackNudge is the Neutral row for exchanges where the model call
// fell back to a canned reply: the wrong count still climbs, and the stage
// climbs once the warn threshold is crossed. Trust is untouched.
func ApplyFallbackNudge(s *Session, th catalog.Thresholds) Outcome {
	s.WrongCount++
	if s.WrongCount >= th.WarnAfter && s.EscalationStage < MaxEscalationStage {
		s.EscalationStage++
	}
	if s.WrongCount >= th.FailAfter {
		return OutcomeFail
	}
	return OutcomeNeutral
}

// PersonaFor projects the current trust score onto a voice. Recomputed
// fresh on every request; there is no hysteresis and no coupling to the
// escalation stage.
func PersonaFor(trustScore int) Persona {
	if trustScore >= 0 {
		return PersonaDeceiver
	}
	return PersonaGuardian
}
