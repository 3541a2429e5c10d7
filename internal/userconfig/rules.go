package userconfig

import (
	"regexp"
	"strings"

	"github.com/awlens/awlens/internal/errs"
)

// RuleSet is the persisted shape of a matching rule table. Rules are
// OR-combined: a rule set matches if any pattern matches.
type RuleSet struct {
	AppPatterns   []string `json:"app_patterns,omitempty"`
	TitlePatterns []string `json:"title_patterns,omitempty"`
	TitleRegex    string   `json:"title_regex,omitempty"`
}

// Empty reports whether the rule set has no patterns at all.
func (rs RuleSet) Empty() bool {
	return len(rs.AppPatterns) == 0 && len(rs.TitlePatterns) == 0 && rs.TitleRegex == ""
}

// Matcher is one compiled rule evaluated against an interval's context.
// Project matching and productivity classification share this shape.
type Matcher interface {
	Matches(app, title string) bool
}

type appSubstring string

func (p appSubstring) Matches(app, _ string) bool {
	return strings.Contains(strings.ToLower(app), string(p))
}

type titleSubstring string

func (p titleSubstring) Matches(_, title string) bool {
	return strings.Contains(strings.ToLower(title), string(p))
}

type titleRegex struct {
	re *regexp.Regexp
}

func (p titleRegex) Matches(_, title string) bool {
	return p.re.MatchString(title)
}

// Compile validates the rule set and returns its matchers. An invalid
// regular expression is a validation error.
func (rs RuleSet) Compile() ([]Matcher, error) {
	var matchers []Matcher
	for _, p := range rs.AppPatterns {
		matchers = append(matchers, appSubstring(strings.ToLower(p)))
	}
	for _, p := range rs.TitlePatterns {
		matchers = append(matchers, titleSubstring(strings.ToLower(p)))
	}
	if rs.TitleRegex != "" {
		re, err := regexp.Compile(rs.TitleRegex)
		if err != nil {
			return nil, errs.Validation("invalid title regex %q: %v", rs.TitleRegex, err)
		}
		matchers = append(matchers, titleRegex{re: re})
	}
	return matchers, nil
}

// CompiledRuleSet pairs a rule set with its compiled matchers.
type CompiledRuleSet struct {
	rules    RuleSet
	matchers []Matcher
}

// MustCompile compiles a rule set that was validated when it was stored.
// A rule set that no longer compiles matches nothing.
func (rs RuleSet) MustCompile() CompiledRuleSet {
	matchers, err := rs.Compile()
	if err != nil {
		return CompiledRuleSet{rules: rs}
	}
	return CompiledRuleSet{rules: rs, matchers: matchers}
}

// Matches reports whether any rule in the set matches the context.
func (c CompiledRuleSet) Matches(app, title string) bool {
	for _, m := range c.matchers {
		if m.Matches(app, title) {
			return true
		}
	}
	return false
}
