package calc

import (
	"strconv"

	"sheetlang/internal/grammar"
	"sheetlang/internal/grid"
)

// attr is the semantic attribute carried by formula parse nodes.
type attr struct {
	value grid.Value
	ref   *grid.Ref
}

type (
	rule       = grammar.Rule[*Sheet, attr]
	node       = grammar.Node[attr]
	production = grammar.Production[*Sheet, attr]
)

// language holds the entry points of the formula grammar.
type language struct {
	program    rule
	expression rule
	cellRef    rule
}

func newProduction(name string) *production {
	return grammar.NewProduction[*Sheet, attr](name)
}

func literal(text string) rule {
	return grammar.Literal[*Sheet, attr](text)
}

func intAttr(text string) (attr, bool) {
	i, err := strconv.Atoi(text)
	if err != nil {
		return attr{}, false
	}
	return attr{value: grid.IntValue(i)}, true
}

// passAttr lifts the attribute of the chosen alternative's only child.
func passAttr(_ *Sheet, n *node) bool {
	n.Attr = n.Child(0).Attr
	return true
}

// fold combines the first value of n with the value at child index tail,
// unless that tail matched nothing.
func fold(n *node, head, tail int, op func(grid.Value, grid.Value) grid.Value) grid.Value {
	v := n.Child(head).Attr.value
	if t := n.Child(tail); !t.IsEpsilon() {
		v = op(v, t.Attr.value)
	}
	return v
}

func newLanguage() *language {
	eps := grammar.Epsilon[*Sheet, attr]()

	integer := grammar.Pattern[*Sheet, attr]("Integer", `-?[0-9]+`).Convert(intAttr)
	positive := grammar.Pattern[*Sheet, attr]("PositiveInteger", `[0-9]+`).Convert(intAttr)
	upper := grammar.Pattern[*Sheet, attr]("UpperAlphaString", `[A-Z]+`)
	noQuote := grammar.Verbatim[*Sheet, attr]("StringNoQuote", `[^"]+`)

	columnLabel := newProduction("ColumnLabel").Alt(upper)
	rowNumber := newProduction("RowNumber").Alt(positive).OnMatch(passAttr)

	absoluteCell := newProduction("AbsoluteCell").Alt(columnLabel, rowNumber).OnMatch(func(_ *Sheet, n *node) bool {
		row, _ := n.Child(1).Attr.value.Int()
		ref, err := grid.NewRef(n.Child(0).Text, row)
		if err != nil {
			log.Debugf("rejecting cell %s: %s", n.Text, err)
			return false
		}
		n.Attr.ref = &ref
		return true
	})

	relativeCell := newProduction("RelativeCell").
		Alt(literal("r"), integer, literal("c"), integer).
		OnMatch(func(s *Sheet, n *node) bool {
			if s.context == nil {
				return false
			}
			dr, _ := n.Child(1).Attr.value.Int()
			dc, _ := n.Child(3).Attr.value.Int()
			ref, ok := s.context.Offset(dr, dc)
			if !ok {
				return false
			}
			n.Attr.ref = &ref
			return true
		})

	cellRef := newProduction("CellReference").Alt(absoluteCell).Alt(relativeCell).OnMatch(passAttr)

	value := newProduction("Value").Alt(cellRef).Alt(integer).OnMatch(func(s *Sheet, n *node) bool {
		if n.Alt == 0 {
			ref := n.Child(0).Attr.ref
			n.Attr = attr{value: s.Fetch(*ref).Value, ref: ref}
			return true
		}
		n.Attr.value = n.Child(0).Attr.value
		return true
	})

	termTail := newProduction("TermTail")
	termTail.Alt(literal("*"), value, termTail).Alt(eps).OnMatch(func(_ *Sheet, n *node) bool {
		n.Attr.value = fold(n, 1, 2, grid.Value.Mul)
		return true
	})
	term := newProduction("Term").Alt(value, termTail).OnMatch(func(_ *Sheet, n *node) bool {
		n.Attr.value = fold(n, 0, 1, grid.Value.Mul)
		return true
	})

	exprTail := newProduction("ExpressionTail")
	exprTail.Alt(literal("+"), term, exprTail).Alt(eps).OnMatch(func(_ *Sheet, n *node) bool {
		n.Attr.value = fold(n, 1, 2, grid.Value.Add)
		return true
	})

	quoted := newProduction("QuotedString").Alt(literal(`"`), noQuote, literal(`"`)).OnMatch(func(_ *Sheet, n *node) bool {
		n.Attr.value = grid.StrValue(n.Text)
		return true
	})

	expression := newProduction("Expression").Alt(term, exprTail).Alt(quoted).OnMatch(func(_ *Sheet, n *node) bool {
		if n.Alt == 1 {
			n.Attr.value = n.Child(0).Attr.value
			return true
		}
		n.Attr.value = fold(n, 0, 1, grid.Value.Add)
		return true
	})

	assignBody := newProduction("AssignmentHead").
		Alt(absoluteCell, literal(":="), expression).
		OnMatch(func(s *Sheet, n *node) bool {
			ref := n.Child(0).Attr.ref
			expr := n.Child(2)
			s.Set(*ref, grid.Contents{Expression: expr.Text, Value: expr.Attr.value})
			n.Attr = attr{value: expr.Attr.value, ref: ref}
			return true
		})
	assignHead := &contextual{target: absoluteCell, body: assignBody}

	printHead := newProduction("PrintHead").
		Alt(literal("print_value"), expression).
		Alt(literal("print_expr"), expression).
		OnMatch(func(s *Sheet, n *node) bool {
			kind := PrintValue
			if n.Alt == 1 {
				kind = PrintExpr
			}
			s.report(kind, n.Child(1))
			return true
		})

	program := newProduction("Program")
	assignment := newProduction("Assignment").Alt(assignHead, program)
	printStmt := newProduction("Print").Alt(printHead, program)
	program.Alt(assignment).Alt(printStmt).Alt(eps)

	return &language{
		program:    program,
		expression: expression,
		cellRef:    cellRef,
	}
}

// contextual parses target alone to learn a cell, then parses body with that
// cell as the active relative-addressing context.
type contextual struct {
	target rule
	body   rule
}

func (c *contextual) Name() string { return c.body.Name() }

func (c *contextual) Parse(s *Sheet, input string) (*node, string, bool) {
	t, _, ok := c.target.Parse(s, input)
	if !ok || t.Attr.ref == nil {
		return nil, "", false
	}
	defer s.enter(*t.Attr.ref)()
	return c.body.Parse(s, input)
}
