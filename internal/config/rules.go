package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/chibi-tools/gatekeeper/internal/constants"
	yaml "gopkg.in/yaml.v3"
)

// RuleAction is the outcome of evaluating path rules for an operation.
type RuleAction string

const (
	// RuleAllow auto-approves without prompting.
	RuleAllow RuleAction = "allow"
	// RuleDeny auto-denies without prompting.
	RuleDeny RuleAction = "deny"
	// RuleAsk falls through to the interactive prompt.
	RuleAsk RuleAction = "ask"
)

// RuleSet holds path glob rules from .chibi/gatekeeper.yml. Deny rules are
// always checked before allow rules.
type RuleSet struct {
	Allow []string `yaml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty"`
}

// GetRulesPath returns the rules file location for the given scope.
func GetRulesPath(global bool) (string, error) {
	base, err := scopeDir(global)
	if err != nil {
		return "", err
	}
	return constants.GetRulesFilePath(base), nil
}

// LoadRules reads a rules file, returning an empty set if the file does
// not exist.
func LoadRules(rulesPath string) (*RuleSet, error) {
	rules := &RuleSet{}

	if _, err := os.Stat(rulesPath); os.IsNotExist(err) {
		return rules, nil
	}

	data, err := os.ReadFile(rulesPath) // #nosec G304 - controlled rules paths
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %v", err)
	}

	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %v", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return rules, nil
}

// LoadEffectiveRules merges global and project rule files; patterns from
// both scopes apply. A scope that fails to load contributes nothing.
func LoadEffectiveRules() *RuleSet {
	merged := &RuleSet{}
	for _, global := range []bool{true, false} {
		path, err := GetRulesPath(global)
		if err != nil {
			continue
		}
		rules, err := LoadRules(path)
		if err != nil {
			continue
		}
		merged.Allow = append(merged.Allow, rules.Allow...)
		merged.Deny = append(merged.Deny, rules.Deny...)
	}
	return merged
}

// Validate checks every glob pattern so a bad rules file is rejected at
// load time instead of silently matching nothing.
func (rs *RuleSet) Validate() error {
	for _, pattern := range append(append([]string{}, rs.Deny...), rs.Allow...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern in rules: %q", pattern)
		}
	}
	return nil
}

// Evaluate matches an operation path against the rule set. Deny wins over
// allow; no match means ask. The matched pattern is returned for logging.
func (rs *RuleSet) Evaluate(path string) (RuleAction, string) {
	if rs == nil {
		return RuleAsk, ""
	}

	slashed := filepath.ToSlash(path)
	for _, pattern := range rs.Deny {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return RuleDeny, pattern
		}
	}
	for _, pattern := range rs.Allow {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return RuleAllow, pattern
		}
	}
	return RuleAsk, ""
}
