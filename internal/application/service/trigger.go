package service

import (
	"fmt"
	"regexp"
	"strings"
	"tildy/internal/infrastructure/config"
)

// TriggerMatch is the ephemeral result of evaluating message text against
// the trigger table.
type TriggerMatch struct {
	Name   string
	Fields map[string]string
}

type compiledTrigger struct {
	name string
	re   *regexp.Regexp
}

// TriggerMatcher resolves free text against an ordered table of named
// patterns. Matching is first-match-wins in table order; each pattern is
// compiled case-insensitive and anchored at the prefix. Pure: no side
// effects beyond the one-time compilation.
type TriggerMatcher struct {
	triggers []compiledTrigger
}

// NewTriggerMatcher compiles the trigger table, substituting the bot's own
// mention identifier for the {bot_id} placeholder.
func NewTriggerMatcher(configs []config.TriggerConfig, botID string) (*TriggerMatcher, error) {
	triggers := make([]compiledTrigger, 0, len(configs))
	for _, cfg := range configs {
		pattern := strings.ReplaceAll(cfg.Pattern, "{bot_id}", regexp.QuoteMeta(botID))
		re, err := regexp.Compile("(?i)^" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for trigger %q: %w", cfg.Name, err)
		}
		triggers = append(triggers, compiledTrigger{name: cfg.Name, re: re})
	}
	return &TriggerMatcher{triggers: triggers}, nil
}

// Match returns the first trigger whose pattern matches text, along with
// its named captures, or false if no trigger matches.
func (m *TriggerMatcher) Match(text string) (*TriggerMatch, bool) {
	trimmed := strings.TrimSpace(text)
	for _, trigger := range m.triggers {
		groups := trigger.re.FindStringSubmatch(trimmed)
		if groups == nil {
			continue
		}
		fields := make(map[string]string)
		for i, name := range trigger.re.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			fields[name] = strings.TrimSpace(groups[i])
		}
		return &TriggerMatch{Name: trigger.name, Fields: fields}, true
	}
	return nil, false
}
