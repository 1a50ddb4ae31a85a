// Package catalog holds the static character configuration: lore, intent
// keyword rules, escalation thresholds and optional knowledge snippets.
// The catalog is loaded once at startup and read-only after that.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// DefaultPaths are tried in order when no explicit path is configured.
var DefaultPaths = []string{
	"assets/config/characters.json",
	"characters.json",
}

type Thresholds struct {
	WarnAfter int `json:"warn_after"`
	FailAfter int `json:"fail_after"`
}

type IntentRules struct {
	SuccessKeywords []string `json:"success_keywords"`
	FailKeywords    []string `json:"fail_keywords"`
}

// KnowledgeItem is a question/answer pair used for light substring retrieval.
type KnowledgeItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

type Character struct {
	ID          string          `json:"-"`
	Lore        string          `json:"lore"`
	IntentRules IntentRules     `json:"intent_rules"`
	Thresholds  Thresholds      `json:"thresholds"`
	Knowledge   []KnowledgeItem `json:"knowledge,omitempty"`
}

// MatchKnowledge returns the answer of the first knowledge pair whose
// question occurs as a case-insensitive substring of the message.
func (c *Character) MatchKnowledge(message string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, item := range c.Knowledge {
		q := strings.ToLower(item.Q)
		if q != "" && strings.Contains(msg, q) {
			return item.A, true
		}
	}
	return "", false
}

// Catalog is the full character configuration plus shared lore snippets
// that apply regardless of which character is bound.
type Catalog struct {
	characters      map[string]*Character
	globalKnowledge map[string]string
}

type catalogFile struct {
	Characters      map[string]*Character `json:"characters"`
	GlobalKnowledge map[string]string     `json:"global_knowledge,omitempty"`
}

// Load reads the catalog from path, or from the first existing DefaultPaths
// entry when path is empty. An absent file yields an empty catalog, not an
// error; the server degrades instead of refusing to start.
func Load(path string) (*Catalog, error) {
	candidates := DefaultPaths
	if path != "" {
		candidates = []string{path}
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read characters config %s: %w", p, err)
		}
		cat, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse characters config %s: %w", p, err)
		}
		slog.Info("Loaded character catalog", "path", p, "characters", cat.Len())
		return cat, nil
	}

	slog.Warn("No characters config found, catalog is empty", "tried", candidates)
	return empty(), nil
}

// New builds a catalog directly, mainly for tests and embedded setups.
func New(chars []*Character, globalKnowledge map[string]string) *Catalog {
	cat := empty()
	if globalKnowledge != nil {
		cat.globalKnowledge = globalKnowledge
	}
	for _, char := range chars {
		if char == nil || char.ID == "" {
			continue
		}
		cat.characters[strings.ToLower(char.ID)] = char
	}
	return cat
}

func empty() *Catalog {
	return &Catalog{
		characters:      map[string]*Character{},
		globalKnowledge: map[string]string{},
	}
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	cat := empty()
	cat.globalKnowledge = file.GlobalKnowledge
	if cat.globalKnowledge == nil {
		cat.globalKnowledge = map[string]string{}
	}

	for id, char := range file.Characters {
		norm := strings.ToLower(strings.TrimSpace(id))
		if norm == "" || char == nil {
			continue
		}
		char.ID = norm
		if char.Thresholds.WarnAfter == 0 {
			char.Thresholds.WarnAfter = 2
		}
		if char.Thresholds.FailAfter == 0 {
			char.Thresholds.FailAfter = 4
		}
		if char.Thresholds.WarnAfter < 1 {
			return nil, fmt.Errorf("character %q: warn_after must be >= 1", norm)
		}
		if char.Thresholds.FailAfter < char.Thresholds.WarnAfter {
			return nil, fmt.Errorf("character %q: fail_after must be >= warn_after", norm)
		}
		cat.characters[norm] = char
	}
	return cat, nil
}

// Get looks up a character by id, case-insensitively.
func (c *Catalog) Get(id string) (*Character, bool) {
	char, ok := c.characters[strings.ToLower(strings.TrimSpace(id))]
	return char, ok
}

// IDs returns the character ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.characters))
	for id := range c.characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Catalog) Len() int {
	return len(c.characters)
}

// MatchGlobalKnowledge scans the shared knowledge map for a key contained
// in the message. Keys are checked in sorted order so a message matching
// several keys resolves deterministically.
func (c *Catalog) MatchGlobalKnowledge(message string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	keys := make([]string, 0, len(c.globalKnowledge))
	for k := range c.globalKnowledge {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(msg, strings.ToLower(k)) {
			return c.globalKnowledge[k], true
		}
	}
	return "", false
}
