// Package calc implements the formula language: its grammar, the Sheet the
// statements act on, and print reporting.
//
// Cells are evaluated lazily. A cell stores the text of the expression last
// assigned to it, and every read re-parses that text against the current
// contents of the sheet, with the cell itself as the context for relative
// references. There is no dependency graph.
package calc

import (
	"github.com/tliron/commonlog"

	"sheetlang/internal/grid"
)

var log = commonlog.GetLogger("sheetlang.calc")

// Sheet is the cell store together with the grammar that reads and writes
// it. A Sheet is not safe for concurrent use.
type Sheet struct {
	store   *grid.Store
	lang    *language
	printer Printer

	// context is the cell relative references resolve against, nil at top
	// level.
	context *grid.Ref

	detectCycles bool
	evaluating   map[grid.Ref]bool
}

type Option func(*Sheet)

// WithPrinter sets where print statements report to. The default discards.
func WithPrinter(p Printer) Option {
	return func(s *Sheet) { s.printer = p }
}

// WithCycleDetection makes a read of a cell that is already being recomputed
// yield an empty value instead of recursing forever.
func WithCycleDetection(on bool) Option {
	return func(s *Sheet) { s.detectCycles = on }
}

func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		store:      grid.NewStore(),
		printer:    PrinterFunc(func(PrintEvent) {}),
		evaluating: map[grid.Ref]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lang = newLanguage()
	return s
}

// Exec runs src as a program. It returns whatever input the program could
// not consume; ok reports whether the program rule matched at all.
func (s *Sheet) Exec(src string) (rest string, ok bool) {
	prev := s.context
	s.context = nil
	defer func() { s.context = prev }()

	n, rest, ok := s.lang.program.Parse(s, src)
	if !ok {
		return src, false
	}
	log.Debugf("executed %q", n.Text)
	return rest, true
}

// Set stores contents at ref, overwriting whatever was there.
func (s *Sheet) Set(ref grid.Ref, c grid.Contents) {
	log.Debugf("%s := %s = %s", ref, c.Expression, c.Value)
	s.store.Put(ref, c)
}

// Get returns the stored contents of ref without recomputing them.
func (s *Sheet) Get(ref grid.Ref) (grid.Contents, bool) {
	return s.store.Get(ref)
}

// Fetch recomputes the value of ref from its stored expression, caches it
// and returns the fresh contents. Unwritten cells yield empty contents and
// are not created.
func (s *Sheet) Fetch(ref grid.Ref) grid.Contents {
	c, ok := s.store.Get(ref)
	if !ok {
		return grid.Contents{}
	}

	if s.detectCycles {
		if s.evaluating[ref] {
			log.Warningf("cycle through cell %s", ref)
			return grid.Contents{Expression: c.Expression}
		}
		s.evaluating[ref] = true
		defer delete(s.evaluating, ref)
	}

	defer s.enter(ref)()
	n, _, ok := s.lang.expression.Parse(s, c.Expression)
	if !ok {
		log.Warningf("cannot re-parse expression %q of cell %s", c.Expression, ref)
		return c
	}
	c.Value = n.Attr.value
	s.store.Put(ref, c)
	return c
}

// Clear removes every cell.
func (s *Sheet) Clear() {
	s.store.Clear()
}

// Store exposes the underlying cells, e.g. for iteration. Reads through it
// do not recompute.
func (s *Sheet) Store() *grid.Store {
	return s.store
}

// SetPrinter replaces the printer and returns the previous one.
func (s *Sheet) SetPrinter(p Printer) Printer {
	prev := s.printer
	s.printer = p
	return prev
}

// Context returns the active relative-addressing context.
func (s *Sheet) Context() (grid.Ref, bool) {
	if s.context == nil {
		return grid.Ref{}, false
	}
	return *s.context, true
}

// enter makes ref the active context and returns the function restoring
// the previous one.
func (s *Sheet) enter(ref grid.Ref) func() {
	prev := s.context
	s.context = &ref
	return func() { s.context = prev }
}

// report resolves the expression of a print statement and hands the result
// to the printer. An expression that is exactly a cell reference reports that
// cell's contents.
func (s *Sheet) report(kind PrintKind, expr *node) {
	ev := PrintEvent{Kind: kind, Source: expr.Text}
	if r, rest, ok := s.lang.cellRef.Parse(s, expr.Text); ok && rest == "" {
		ref := *r.Attr.ref
		c := s.Fetch(ref)
		ev.Cell = &ref
		ev.Text = c.Value.String()
		if kind == PrintExpr {
			ev.Text = c.Expression
		}
	} else {
		ev.Text = expr.Attr.value.String()
		if kind == PrintExpr {
			ev.Text = expr.Text
		}
	}
	s.printer.Print(ev)
}
