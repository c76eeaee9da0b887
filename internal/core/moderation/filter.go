// Package moderation scans free-text chat content for patterns that leak
// off-platform contact information. The pattern table is configuration, not
// fixed logic; the filter itself is deterministic and side-effect free.
package moderation

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern category names, reported in Result.Hits and used as metric labels.
const (
	PatternPhone   = "phone"
	PatternEmail   = "email"
	PatternHandle  = "handle"
	PatternKeyword = "keyword"
)

// Config is the moderation pattern table.
type Config struct {
	// MinDigitRun is the minimum number of digits (single separators between
	// digits are tolerated) for a run to be treated as a phone number.
	MinDigitRun int
	// Placeholder replaces each offending span in the stored content. The
	// redaction stays visible to the recipient, never silently dropped.
	Placeholder string
	// Keywords are external-platform markers matched as whole words,
	// case-insensitively.
	Keywords []string
	// Warning is returned to the sender whenever anything was redacted.
	Warning string
}

// DefaultConfig returns the production pattern table.
func DefaultConfig() Config {
	return Config{
		MinDigitRun: 7,
		Placeholder: "[filtered]",
		Keywords: []string{
			"whatsapp", "telegram", "signal", "viber",
			"instagram", "facebook", "messenger",
		},
		Warning: "contact details are filtered; negotiate on-platform",
	}
}

// Result is the outcome of filtering one piece of text.
type Result struct {
	Content string
	Blocked bool
	Warning string
	// Hits lists the pattern categories that matched, in application order,
	// without duplicates.
	Hits []string
}

// Filter applies the configured pattern table to free text.
type Filter struct {
	cfg     Config
	email   *regexp.Regexp
	phone   *regexp.Regexp
	handle  *regexp.Regexp
	keyword *regexp.Regexp
}

// New compiles the pattern table. Zero-value config fields fall back to
// DefaultConfig equivalents.
func New(cfg Config) *Filter {
	def := DefaultConfig()
	if cfg.MinDigitRun <= 0 {
		cfg.MinDigitRun = def.MinDigitRun
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = def.Placeholder
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = def.Keywords
	}
	if cfg.Warning == "" {
		cfg.Warning = def.Warning
	}

	f := &Filter{cfg: cfg}
	f.email = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// A digit followed by at least MinDigitRun-1 digits, each optionally
	// preceded by one separator character.
	f.phone = regexp.MustCompile(fmt.Sprintf(`\+?\d(?:[\s().\-]?\d){%d,}`, cfg.MinDigitRun-1))
	f.handle = regexp.MustCompile(`@[A-Za-z0-9_][A-Za-z0-9_.]{2,}`)
	f.keyword = regexp.MustCompile(`(?i)\b(` + strings.Join(escapeAll(cfg.Keywords), "|") + `)\b`)
	return f
}

// Apply filters text. Non-matching text passes through unchanged with
// Blocked=false; on any match the offending spans are replaced with the
// placeholder, Blocked is set and a sender-facing warning is generated.
func (f *Filter) Apply(text string) Result {
	res := Result{Content: text}

	// Email before handle: an address would otherwise leave its domain part
	// behind as an "@" match.
	for _, p := range []struct {
		name string
		re   *regexp.Regexp
	}{
		{PatternEmail, f.email},
		{PatternPhone, f.phone},
		{PatternHandle, f.handle},
		{PatternKeyword, f.keyword},
	} {
		if !p.re.MatchString(res.Content) {
			continue
		}
		res.Content = p.re.ReplaceAllString(res.Content, f.cfg.Placeholder)
		res.Hits = append(res.Hits, p.name)
	}

	if len(res.Hits) > 0 {
		res.Blocked = true
		res.Warning = f.cfg.Warning
	}
	return res
}

func escapeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}
