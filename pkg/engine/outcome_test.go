package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"datableed/pkg/catalog"
)

var testThresholds = catalog.Thresholds{WarnAfter: 2, FailAfter: 4}

func TestApplyIntent_Success(t *testing.T) {
	s := newSession("maya")
	s.WrongCount = 3
	s.EscalationStage = 4
	s.TrustScore = 40

	outcome := ApplyIntent(&s, testThresholds, IntentSuccess)

	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, 2, s.WrongCount)
	assert.Equal(t, 1, s.EscalationStage)
	assert.Equal(t, 20, s.TrustScore)
}

func TestApplyIntent_WrongCountNeverNegative(t *testing.T) {
	s := newSession("maya")
	for i := 0; i < 10; i++ {
		ApplyIntent(&s, testThresholds, IntentSuccess)
		assert.GreaterOrEqual(t, s.WrongCount, 0)
	}
	assert.Equal(t, 0, s.WrongCount)
}

func TestApplyIntent_FailBeforeThresholdIsNeutral(t *testing.T) {
	s := newSession("maya")

	outcome := ApplyIntent(&s, testThresholds, IntentFail)

	assert.Equal(t, OutcomeNeutral, outcome)
	assert.Equal(t, 1, s.WrongCount)
	assert.Equal(t, 2, s.EscalationStage)
	assert.Equal(t, 20, s.TrustScore)
}

func TestApplyIntent_ClickHereScenario(t *testing.T) {
	// Character with failKeywords=["click here"], warn 2 / fail 4: four
	// fail-classified messages on a fresh session.
	s := newSession("maya")

	steps := []struct {
		wrongCount int
		stage      int
		outcome    Outcome
	}{
		{1, 2, OutcomeNeutral},
		{2, 3, OutcomeNeutral},
		{3, 4, OutcomeNeutral},
		{4, 5, OutcomeFail},
	}
	for i, want := range steps {
		outcome := ApplyIntent(&s, testThresholds, IntentFail)
		assert.Equal(t, want.wrongCount, s.WrongCount, "message %d", i+1)
		assert.Equal(t, want.stage, s.EscalationStage, "message %d", i+1)
		assert.Equal(t, want.outcome, outcome, "message %d", i+1)
	}
}

func TestApplyIntent_StageClampedAtFive(t *testing.T) {
	s := newSession("maya")
	for i := 0; i < 10; i++ {
		ApplyIntent(&s, testThresholds, IntentFail)
		assert.LessOrEqual(t, s.EscalationStage, MaxEscalationStage)
		assert.GreaterOrEqual(t, s.EscalationStage, 1)
	}
	assert.Equal(t, MaxEscalationStage, s.EscalationStage)
}

func TestApplyIntent_SuccessResetsStageImmediately(t *testing.T) {
	s := newSession("maya")
	for i := 0; i < 4; i++ {
		ApplyIntent(&s, testThresholds, IntentFail)
	}
	ApplyIntent(&s, testThresholds, IntentSuccess)
	assert.Equal(t, 1, s.EscalationStage)
}

func TestApplyIntent_NeutralChangesNothing(t *testing.T) {
	s := newSession("maya")
	s.WrongCount = 2
	s.EscalationStage = 3
	s.TrustScore = -40
	before := s

	outcome := ApplyIntent(&s, testThresholds, IntentNeutral)

	assert.Equal(t, OutcomeNeutral, outcome)
	assert.Equal(t, before, s)
}

func TestApplyFallbackNudge(t *testing.T) {
	s := newSession("maya")

	// First nudge: wrongCount 1 < warnAfter 2, stage stays put.
	outcome := ApplyFallbackNudge(&s, testThresholds)
	assert.Equal(t, OutcomeNeutral, outcome)
	assert.Equal(t, 1, s.WrongCount)
	assert.Equal(t, 1, s.EscalationStage)
	assert.Equal(t, 0, s.TrustScore)

	// Second nudge crosses the warn threshold.
	outcome = ApplyFallbackNudge(&s, testThresholds)
	assert.Equal(t, OutcomeNeutral, outcome)
	assert.Equal(t, 2, s.WrongCount)
	assert.Equal(t, 2, s.EscalationStage)

	// Two more reach failAfter.
	ApplyFallbackNudge(&s, testThresholds)
	outcome = ApplyFallbackNudge(&s, testThresholds)
	assert.Equal(t, OutcomeFail, outcome)
	assert.Equal(t, 4, s.WrongCount)
	// Trust never moves on the fallback row.
	assert.Equal(t, 0, s.TrustScore)
}

func TestTrustScoreUnbounded(t *testing.T) {
	s := newSession("maya")
	for i := 0; i < 1000; i++ {
		ApplyIntent(&s, testThresholds, IntentFail)
	}
	assert.Equal(t, 1000*TrustStep, s.TrustScore)

	s = newSession("maya")
	for i := 0; i < 1000; i++ {
		ApplyIntent(&s, testThresholds, IntentSuccess)
	}
	assert.Equal(t, -1000*TrustStep, s.TrustScore)
}

func TestPersonaFor(t *testing.T) {
	assert.Equal(t, PersonaDeceiver, PersonaFor(0))
	assert.Equal(t, PersonaDeceiver, PersonaFor(20))
	assert.Equal(t, PersonaDeceiver, PersonaFor(100000))
	assert.Equal(t, PersonaGuardian, PersonaFor(-1))
	assert.Equal(t, PersonaGuardian, PersonaFor(-20))
	assert.Equal(t, PersonaGuardian, PersonaFor(-100000))
}

func TestPersonaFor_NoHysteresis(t *testing.T) {
	// The projection depends only on the current score, not on history.
	s := newSession("maya")
	ApplyIntent(&s, testThresholds, IntentFail) // +20
	assert.Equal(t, PersonaDeceiver, PersonaFor(s.TrustScore))
	ApplyIntent(&s, testThresholds, IntentSuccess) // 0
	assert.Equal(t, PersonaDeceiver, PersonaFor(s.TrustScore))
	ApplyIntent(&s, testThresholds, IntentSuccess) // -20
	assert.Equal(t, PersonaGuardian, PersonaFor(s.TrustScore))
	ApplyIntent(&s, testThresholds, IntentFail) // 0
	assert.Equal(t, PersonaDeceiver, PersonaFor(s.TrustScore))
}
