// Package grammar is a small backtracking recursive-descent engine.
//
// A grammar is built from Rule values: Productions (an ordered choice of
// sequences), Terminals (pattern matchers) and the shared Epsilon rule.
// Rules hold no parse state; every successful Parse returns a fresh Node,
// so a rule can be reused at any position and after any failure.
//
// E is the environment threaded through every Parse call and A is the
// semantic attribute a Node may carry.
package grammar

import "strings"

// Rule is anything that can parse a prefix of input.
type Rule[E, A any] interface {
	Name() string
	Parse(env E, input string) (*Node[A], string, bool)
}

// Node is the result of one successful parse.
type Node[A any] struct {
	Name     string
	Alt      int // chosen alternative; -1 for terminals and epsilon
	Text     string
	Children []*Node[A]
	Attr     A

	epsilon bool
}

// IsEpsilon reports whether the node matched through the epsilon alternative.
func (n *Node[A]) IsEpsilon() bool {
	return n != nil && n.epsilon
}

// Child returns the i-th child of the chosen alternative.
func (n *Node[A]) Child(i int) *Node[A] {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Action runs after an alternative matched. Returning false rejects the
// match and the production moves on to its next alternative.
type Action[E, A any] func(env E, n *Node[A]) bool

// Production is an ordered choice of alternative sequences.
type Production[E, A any] struct {
	name   string
	alts   [][]Rule[E, A]
	action Action[E, A]
}

// NewProduction returns a production with no alternatives. Alternatives may
// be added after the production is referenced, which is how recursive rules
// are tied together.
func NewProduction[E, A any](name string) *Production[E, A] {
	return &Production[E, A]{name: name}
}

// Alt appends one alternative right-hand side.
func (p *Production[E, A]) Alt(rules ...Rule[E, A]) *Production[E, A] {
	p.alts = append(p.alts, rules)
	return p
}

// OnMatch sets the semantic action. It never runs for epsilon alternatives.
func (p *Production[E, A]) OnMatch(a Action[E, A]) *Production[E, A] {
	p.action = a
	return p
}

func (p *Production[E, A]) Name() string { return p.name }

// Parse tries each alternative against the original input in declaration
// order and returns the first that matches completely.
func (p *Production[E, A]) Parse(env E, input string) (*Node[A], string, bool) {
	for i, alt := range p.alts {
		if n, rest, ok := p.try(env, i, alt, input); ok {
			return n, rest, true
		}
	}
	return nil, "", false
}

func (p *Production[E, A]) try(env E, idx int, alt []Rule[E, A], input string) (*Node[A], string, bool) {
	children := make([]*Node[A], 0, len(alt))
	rest := input
	for _, r := range alt {
		c, next, ok := r.Parse(env, rest)
		if !ok {
			return nil, "", false
		}
		children = append(children, c)
		rest = next
	}

	n := &Node[A]{Name: p.name, Alt: idx, Children: children}
	if isEpsilonAlt(alt) {
		n.epsilon = true
		return n, rest, true
	}

	var b strings.Builder
	for _, c := range children {
		if !c.IsEpsilon() {
			b.WriteString(c.Text)
		}
	}
	n.Text = b.String()

	if p.action != nil && !p.action(env, n) {
		return nil, "", false
	}
	return n, rest, true
}

// ----------------------------- Epsilon -----------------------------

type epsilon[E, A any] struct{}

// Epsilon returns the nullable rule. It is a zero-size value, so every call
// yields the same rule.
func Epsilon[E, A any]() Rule[E, A] {
	return epsilon[E, A]{}
}

func (epsilon[E, A]) Name() string { return "ε" }

func (epsilon[E, A]) Parse(_ E, input string) (*Node[A], string, bool) {
	return &Node[A]{Name: "ε", Alt: -1, epsilon: true}, input, true
}

func isEpsilonAlt[E, A any](alt []Rule[E, A]) bool {
	if len(alt) != 1 {
		return false
	}
	_, ok := alt[0].(epsilon[E, A])
	return ok
}
