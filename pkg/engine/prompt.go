package engine

const (
	GuardianPrompt = "You are a calm, empathetic guide. Your goal is to help the player spot red flags and stay safe."
	DeceiverPrompt = "You are manipulative, deceptive, and persuasive. Your goal is to lure the player into making risky decisions."

	// DefaultGuardrails is appended to every system prompt.
	DefaultGuardrails = "Stay strictly in-character. Be concise. Your goal is to advance the narrative of the Data_Bleed game."
)

// PersonaPrompt returns the instruction text for the active voice.
func PersonaPrompt(p Persona) string {
	if p == PersonaGuardian {
		return GuardianPrompt
	}
	return DeceiverPrompt
}

// BuildSystemPrompt composes the final instruction text: persona voice
// first, then the lore block, then the guardrails. Pure concatenation;
// identical inputs produce byte-identical output.
func BuildSystemPrompt(personaText, lore, guardrails string) string {
	return personaText + "\n\nGame Lore Context:\n" + lore + "\n\nRules:\n" + guardrails
}

// AppendKnowledge attaches a retrieved knowledge snippet as extra context.
func AppendKnowledge(prompt, answer string) string {
	return prompt + "\n\nKnown Facts:\n" + answer
}
