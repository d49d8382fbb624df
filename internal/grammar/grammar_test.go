package grammar

import (
	"strconv"
	"testing"
)

type testEnv struct {
	actions int
}

func number() *Terminal[*testEnv, int] {
	return Pattern[*testEnv, int]("Number", `[0-9]+`).Convert(func(text string) (int, bool) {
		n, err := strconv.Atoi(text)
		return n, err == nil
	})
}

// Sum -> Number SumTail ; SumTail -> "+" Number SumTail | ε
func sumGrammar() *Production[*testEnv, int] {
	eps := Epsilon[*testEnv, int]()
	tail := NewProduction[*testEnv, int]("SumTail")
	tail.Alt(Literal[*testEnv, int]("+"), number(), tail).Alt(eps).OnMatch(func(env *testEnv, n *Node[int]) bool {
		env.actions++
		n.Attr = n.Child(1).Attr
		if t := n.Child(2); !t.IsEpsilon() {
			n.Attr += t.Attr
		}
		return true
	})
	sum := NewProduction[*testEnv, int]("Sum")
	sum.Alt(number(), tail).OnMatch(func(env *testEnv, n *Node[int]) bool {
		env.actions++
		n.Attr = n.Child(0).Attr
		if t := n.Child(1); !t.IsEpsilon() {
			n.Attr += t.Attr
		}
		return true
	})
	return sum
}

func TestTerminalTrimsAndAnchors(t *testing.T) {
	tests := []struct {
		name  string
		rule  *Terminal[*testEnv, int]
		input string
		text  string
		rest  string
		ok    bool
	}{
		{"number", number(), "2gd6", "2", "gd6", true},
		{"leading space", number(), "   42 +1", "42", " +1", true},
		{"not at start", number(), "x42", "", "", false},
		{"literal", Literal[*testEnv, int]("b"), "b*a", "b", "*a", true},
		{"literal miss", Literal[*testEnv, int]("b"), "hey", "", "", false},
		{"literal metachars", Literal[*testEnv, int]("*"), " *3", "*", "3", true},
		{"verbatim keeps space", Verbatim[*testEnv, int]("Text", `[^"]+`), " hi  \"", " hi  ", "\"", true},
		{"verbatim miss", Verbatim[*testEnv, int]("Text", `[^"]+`), "\" hi", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, rest, ok := tt.rule.Parse(&testEnv{}, tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				if n != nil {
					t.Errorf("failed parse returned node %+v", n)
				}
				return
			}
			if n.Text != tt.text || rest != tt.rest {
				t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.input, n.Text, rest, tt.text, tt.rest)
			}
		})
	}
}

func TestTerminalConvertFailure(t *testing.T) {
	tok := Pattern[*testEnv, int]("Small", `[0-9]+`).Convert(func(text string) (int, bool) {
		n, _ := strconv.Atoi(text)
		return n, n < 10
	})
	if _, _, ok := tok.Parse(&testEnv{}, "12"); ok {
		t.Error("conversion failure should fail the token")
	}
	n, _, ok := tok.Parse(&testEnv{}, "7")
	if !ok || n.Attr != 7 {
		t.Errorf("Parse(7) = %+v, %v", n, ok)
	}
}

func TestProductionSequenceAndText(t *testing.T) {
	env := &testEnv{}
	n, rest, ok := sumGrammar().Parse(env, "1 + 2+ 3 hello")
	if !ok {
		t.Fatal("expected match")
	}
	if n.Attr != 6 {
		t.Errorf("value = %d, want 6", n.Attr)
	}
	if n.Text != "1+2+3" {
		t.Errorf("text = %q, want %q", n.Text, "1+2+3")
	}
	if rest != " hello" {
		t.Errorf("rest = %q, want %q", rest, " hello")
	}
}

func TestEpsilonLeavesInputUnchanged(t *testing.T) {
	eps := Epsilon[*testEnv, int]()
	for _, in := range []string{"", "  abc", "*7"} {
		n, rest, ok := eps.Parse(&testEnv{}, in)
		if !ok || rest != in {
			t.Errorf("Epsilon.Parse(%q) = %q, %v", in, rest, ok)
		}
		if !n.IsEpsilon() || n.Text != "" || n.Attr != 0 {
			t.Errorf("epsilon node = %+v", n)
		}
	}
	if Epsilon[*testEnv, int]() != eps {
		t.Error("epsilon values should be identical")
	}
}

func TestEpsilonAlternativeSkipsAction(t *testing.T) {
	env := &testEnv{}
	tail := NewProduction[*testEnv, int]("Tail")
	tail.Alt(Literal[*testEnv, int]("*"), number()).Alt(Epsilon[*testEnv, int]()).OnMatch(func(env *testEnv, n *Node[int]) bool {
		env.actions++
		n.Attr = 99
		return true
	})
	n, rest, ok := tail.Parse(env, "+7")
	if !ok || rest != "+7" {
		t.Fatalf("Parse = %q, %v", rest, ok)
	}
	if !n.IsEpsilon() || n.Attr != 0 || n.Text != "" {
		t.Errorf("epsilon parse carried state: %+v", n)
	}
	if env.actions != 0 {
		t.Errorf("action ran %d times for epsilon", env.actions)
	}
	if n.Alt != 1 {
		t.Errorf("alt = %d, want 1", n.Alt)
	}
}

func TestBacktrackingUsesOriginalInput(t *testing.T) {
	// First alternative matches "1" then fails on "-", second must see "1-2".
	p := NewProduction[*testEnv, int]("Either")
	p.Alt(number(), Literal[*testEnv, int]("+"), number()).
		Alt(number(), Literal[*testEnv, int]("-"), number())
	n, rest, ok := p.Parse(&testEnv{}, "1-2")
	if !ok || rest != "" {
		t.Fatalf("Parse = %q, %v", rest, ok)
	}
	if n.Alt != 1 || n.Text != "1-2" {
		t.Errorf("node = alt %d text %q", n.Alt, n.Text)
	}
}

func TestActionRejectionTriesNextAlternative(t *testing.T) {
	p := NewProduction[*testEnv, int]("Guarded")
	p.Alt(number()).Alt(Pattern[*testEnv, int]("Any", `[0-9a-z]+`))
	p.OnMatch(func(_ *testEnv, n *Node[int]) bool {
		return n.Alt != 0 || n.Child(0).Attr > 10
	})
	n, _, ok := p.Parse(&testEnv{}, "5")
	if !ok || n.Alt != 1 {
		t.Errorf("expected fallback to second alternative, got %+v %v", n, ok)
	}
}

func TestFailedParseLeavesNoState(t *testing.T) {
	sum := sumGrammar()
	env := &testEnv{}
	if _, _, ok := sum.Parse(env, "+7"); ok {
		t.Fatal("expected failure")
	}
	reused, rest1, ok1 := sum.Parse(env, "4+5")
	fresh, rest2, ok2 := sumGrammar().Parse(&testEnv{}, "4+5")
	if ok1 != ok2 || rest1 != rest2 || reused.Attr != fresh.Attr || reused.Text != fresh.Text {
		t.Errorf("reused rule differs from fresh: %+v vs %+v", reused, fresh)
	}
}

func TestNoAlternativeMatches(t *testing.T) {
	n, rest, ok := sumGrammar().Parse(&testEnv{}, "abc")
	if ok || n != nil || rest != "" {
		t.Errorf("Parse(abc) = %+v, %q, %v", n, rest, ok)
	}
}

func TestChildOutOfRange(t *testing.T) {
	var n *Node[int]
	if n.Child(0) != nil || n.IsEpsilon() {
		t.Error("nil node accessors should be safe")
	}
	n = &Node[int]{Children: []*Node[int]{{Name: "x"}}}
	if n.Child(1) != nil || n.Child(-1) != nil || n.Child(0).Name != "x" {
		t.Error("Child bounds")
	}
}
