package fvwm

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// defaultBlockedPhrases are substrings rejected in any command line. Exec
// forwards its argument to a shell, so shell-destructive fragments are
// blocked alongside window manager ones.
var defaultBlockedPhrases = []string{
	"rm -rf /",
	"sudo ",
	"mkfs",
	"> /dev/",
	"dd if=",
}

// defaultBlockedPatterns match whole commands that end the session.
var defaultBlockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*quit\b`),
}

// zeroWidthChars strips the invisible characters that could split a
// blocked phrase without changing how the command renders.
var zeroWidthChars = strings.NewReplacer(
	"\u200b", "", // zero-width space
	"\u200c", "", // zero-width non-joiner
	"\u200d", "", // zero-width joiner
	"\ufeff", "", // zero-width no-break space (BOM)
	"\u2060", "", // word joiner
	"\u180e", "", // Mongolian vowel separator
	"\u00ad", "", // soft hyphen
)

// Guard screens command lines before they reach the window manager. Input
// is normalized (zero-width stripping, NFKC, lowercasing) before matching
// so homoglyph and joiner tricks do not slip a blocked command through.
type Guard struct {
	phrases  []string
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// GuardPhrases appends substrings to the blocklist.
func GuardPhrases(phrases ...string) GuardOption {
	return func(g *Guard) {
		for _, p := range phrases {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				g.phrases = append(g.phrases, p)
			}
		}
	}
}

// GuardPatterns appends compiled patterns to the blocklist.
func GuardPatterns(patterns ...*regexp.Regexp) GuardOption {
	return func(g *Guard) {
		for _, re := range patterns {
			if re != nil {
				g.patterns = append(g.patterns, re)
			}
		}
	}
}

// GuardLogger sets the structured logger. The default discards everything.
func GuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard creates a guard with the default blocklist plus any options.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		phrases:  append([]string(nil), defaultBlockedPhrases...),
		patterns: append([]*regexp.Regexp(nil), defaultBlockedPatterns...),
		logger:   nopLogger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check returns an error when the command matches the blocklist. The
// returned error names the matched phrase or pattern.
func (g *Guard) Check(command string) error {
	normalized := g.normalize(command)
	for _, phrase := range g.phrases {
		if strings.Contains(normalized, phrase) {
			g.logger.Warn("command blocked", "phrase", phrase)
			return fmt.Errorf("command blocked for safety: contains %q", phrase)
		}
	}
	for _, re := range g.patterns {
		if re.MatchString(normalized) {
			g.logger.Warn("command blocked", "pattern", re.String())
			return fmt.Errorf("command blocked for safety: matches %q", re.String())
		}
	}
	return nil
}

func (g *Guard) normalize(s string) string {
	cleaned := zeroWidthChars.Replace(s)
	cleaned = norm.NFKC.String(cleaned)
	return strings.ToLower(strings.TrimSpace(cleaned))
}
