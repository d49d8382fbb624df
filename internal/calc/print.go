package calc

import (
	"fmt"
	"io"

	"sheetlang/internal/grid"
)

type PrintKind int

const (
	PrintValue PrintKind = iota
	PrintExpr
)

func (k PrintKind) String() string {
	if k == PrintExpr {
		return "print_expr"
	}
	return "print_value"
}

// PrintEvent is the result of one print statement.
type PrintEvent struct {
	Kind PrintKind
	// Source is the text of the printed expression.
	Source string
	// Cell is set when the printed expression is a single cell reference.
	Cell *grid.Ref
	// Text is the expression text or the value being reported.
	Text string
}

func (e PrintEvent) String() string {
	switch {
	case e.Cell != nil && e.Kind == PrintExpr:
		return fmt.Sprintf("Expression in cell %s is %s", e.Cell, e.Text)
	case e.Cell != nil:
		return fmt.Sprintf("Value of cell %s is %s", e.Cell, e.Text)
	case e.Kind == PrintExpr:
		return "Expression is " + e.Text
	default:
		return "Value is " + e.Text
	}
}

type Printer interface {
	Print(PrintEvent)
}

type PrinterFunc func(PrintEvent)

func (f PrinterFunc) Print(e PrintEvent) { f(e) }

// ConsolePrinter writes one line per event to w.
func ConsolePrinter(w io.Writer) Printer {
	return PrinterFunc(func(e PrintEvent) {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			log.Errorf("print: %s", err)
		}
	})
}

// Dump writes every stored cell in row-major order as
// "<ref> := <expression> = <value>", recomputing each value first.
func (s *Sheet) Dump(w io.Writer) error {
	for _, ref := range s.store.Refs() {
		c := s.Fetch(ref)
		if _, err := fmt.Fprintf(w, "%s := %s = %s\n", ref, c.Expression, c.Value); err != nil {
			return fmt.Errorf("dump %s: %w", ref, err)
		}
	}
	return nil
}
