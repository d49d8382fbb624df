package grammar

import (
	"regexp"
	"strings"
)

// Terminal consumes characters directly with a regular expression instead of
// delegating to child rules.
type Terminal[E, A any] struct {
	name    string
	re      *regexp.Regexp
	trim    bool
	convert func(text string) (A, bool)
}

// Pattern matches re at the start of the whitespace-trimmed input.
func Pattern[E, A any](name, re string) *Terminal[E, A] {
	return &Terminal[E, A]{name: name, re: anchor(re), trim: true}
}

// Verbatim matches re at the start of the input without trimming it.
func Verbatim[E, A any](name, re string) *Terminal[E, A] {
	return &Terminal[E, A]{name: name, re: anchor(re)}
}

// Literal matches text exactly at the start of the trimmed input.
func Literal[E, A any](text string) *Terminal[E, A] {
	return &Terminal[E, A]{name: text, re: anchor(regexp.QuoteMeta(text)), trim: true}
}

// Convert sets the function computing the token's attribute from the
// matched text. A false result fails the token.
func (t *Terminal[E, A]) Convert(fn func(text string) (A, bool)) *Terminal[E, A] {
	t.convert = fn
	return t
}

func (t *Terminal[E, A]) Name() string { return t.name }

func (t *Terminal[E, A]) Parse(_ E, input string) (*Node[A], string, bool) {
	if t.trim {
		input = strings.TrimSpace(input)
	}
	loc := t.re.FindStringIndex(input)
	if loc == nil || loc[1] == 0 {
		return nil, "", false
	}
	text := input[:loc[1]]
	n := &Node[A]{Name: t.name, Alt: -1, Text: text}
	if t.convert != nil {
		v, ok := t.convert(text)
		if !ok {
			return nil, "", false
		}
		n.Attr = v
	}
	return n, input[loc[1]:], true
}

func anchor(re string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + re + `)`)
}
