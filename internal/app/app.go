// Package app is an interactive terminal view of a calc.Sheet.
package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/tliron/commonlog"

	"sheetlang/internal/calc"
	"sheetlang/internal/config"
	"sheetlang/internal/grid"
)

var log = commonlog.GetLogger("sheetlang.app")

const helpText = "\n arrows - move \n Ctrl←/Ctrl→ - col width \n PgUp/PgDn/Home/End - scroll \n e - values/expressions \n : - run statements \n ? - this help \n q / Ctrl+C - quit \n "

type App struct {
	Sheet *calc.Sheet

	// layout
	LeftGutter   int
	StatusLines  int
	DefaultWidth int
	CellPadding  int

	ColWidths []int
	Rows      int

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	ShowExpressions bool
	HelpVisible     bool
	Message         string
	Quit            bool
}

func NewApp(sheet *calc.Sheet, view config.View) *App {
	a := &App{
		Sheet:           sheet,
		LeftGutter:      5,
		StatusLines:     2,
		DefaultWidth:    view.ColumnWidth,
		CellPadding:     1,
		ShowExpressions: view.ShowExpressions,
	}
	if a.DefaultWidth < 4 {
		a.DefaultWidth = 12
	}
	a.EnsureColExists(7)
	a.EnsureRowExists(19)
	a.fitToSheet()
	return a
}

// Run draws the sheet on s and handles events until the user quits.
func (a *App) Run(s tcell.Screen) {
	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventResize:
			s.Sync()
		case nil:
			// screen finalized
			return
		}
	}
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyEsc:
		a.Message = ""
	case tcell.KeyUp:
		if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		a.CurRow++
		a.EnsureRowExists(a.CurRow)
	case tcell.KeyLeft:
		if ctrl {
			if a.ColWidths[a.CurCol] > 4 {
				a.ColWidths[a.CurCol]--
			}
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if ctrl {
			a.ColWidths[a.CurCol]++
		} else {
			a.CurCol++
			a.EnsureColExists(a.CurCol)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
		a.CurRow = max(0, a.CurRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow += vr
		a.CurRow += vr
		a.EnsureRowExists(a.CurRow)
	case tcell.KeyHome:
		a.CurRow, a.CurCol = 0, 0
	case tcell.KeyEnd:
		maxRow, maxCol := a.Sheet.Store().Bounds()
		a.CurRow, a.CurCol = max(0, maxRow), max(0, maxCol)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.Quit = true
		case 'e':
			a.ShowExpressions = !a.ShowExpressions
		case '?':
			a.HelpVisible = true
		case ':':
			if src, ok := a.PopupInput(s, ":", a.statementFor(a.CurRow, a.CurCol)); ok {
				a.ExecuteStatement(src)
			}
		}
	}
}

// statementFor prefills the statement popup with an assignment to the cell.
func (a *App) statementFor(r, c int) string {
	ref := grid.Ref{Row: r, Col: c}
	cur, _ := a.Sheet.Get(ref)
	return ref.String() + " := " + cur.Expression
}

// ExecuteStatement runs src against the sheet and puts its print output, or
// the unparsed remainder, in the status line.
func (a *App) ExecuteStatement(src string) {
	var out []string
	prev := a.Sheet.SetPrinter(calc.PrinterFunc(func(e calc.PrintEvent) {
		out = append(out, e.String())
	}))
	rest, _ := a.Sheet.Exec(src)
	a.Sheet.SetPrinter(prev)

	if rest = strings.TrimSpace(rest); rest != "" {
		log.Infof("statement %q left %q", src, rest)
		a.Message = fmt.Sprintf("Parsing left remainder [%s].", rest)
	} else {
		a.Message = strings.Join(out, "; ")
	}
	a.fitToSheet()
}

// ----------------------------- Drawing -----------------------------

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	// header row: column names
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		hdrStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if c == a.CurCol {
			hdrStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		a.printTextFixedWidth(s, x, 0, "", hdrStyle, wc)
		a.printTextFixedWidth(s, x+a.CellPadding, 0, grid.ColToName(c), hdrStyle, max(0, wc-2*a.CellPadding))
		x += wc
	}

	// rows
	y := 1
	for r := a.ViewRow; r < a.Rows && y < h-a.StatusLines; r++ {
		gutterStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if r == a.CurRow {
			gutterStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		a.printTextFixedWidth(s, 0, y, fmt.Sprintf("%d", r+1), gutterStyle, a.LeftGutter-1)

		x = a.LeftGutter
		for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
			wc := a.ColWidths[c]
			style := tcell.StyleDefault
			if r == a.CurRow && c == a.CurCol {
				style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
			}
			a.printTextFixedWidth(s, x, y, "", style, wc)
			a.printTextFixedWidth(s, x+a.CellPadding, y, a.GetDisplayText(r, c), style, max(0, wc-2*a.CellPadding))
			x += wc
		}
		y++
	}

	// status area
	statusY := max(0, h-a.StatusLines)
	statusStyle := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	a.printTextFixedWidth(s, 0, statusY, a.statusLine(), statusStyle, w)
	a.printTextFixedWidth(s, 0, statusY+1, a.Message, statusStyle, w)

	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	s.HideCursor()
	s.Show()
}

func (a *App) statusLine() string {
	ref := grid.Ref{Row: a.CurRow, Col: a.CurCol}
	mode := "values"
	if a.ShowExpressions {
		mode = "expressions"
	}
	c, ok := a.Sheet.Get(ref)
	if !ok {
		return fmt.Sprintf("%s (%s)  [%s]", ref, ref.Relative(), mode)
	}
	return fmt.Sprintf("%s (%s)  := %s  = %s  [%s]", ref, ref.Relative(), c.Expression, a.Sheet.Fetch(ref).Value, mode)
}

// GetDisplayText returns the cell's recomputed value, or its expression
// when expressions are shown.
func (a *App) GetDisplayText(r, c int) string {
	ref := grid.Ref{Row: r, Col: c}
	if a.ShowExpressions {
		cur, _ := a.Sheet.Get(ref)
		return cur.Expression
	}
	return a.Sheet.Fetch(ref).Value.String()
}

// ----------------------------- Helpers -----------------------------

func (a *App) EnsureColExists(idx int) {
	for len(a.ColWidths) <= idx {
		a.ColWidths = append(a.ColWidths, a.DefaultWidth)
	}
}

func (a *App) EnsureRowExists(idx int) {
	if a.Rows <= idx {
		a.Rows = idx + 1
	}
}

// fitToSheet grows the grid so every stored cell has a row and column.
func (a *App) fitToSheet() {
	maxRow, maxCol := a.Sheet.Store().Bounds()
	a.EnsureRowExists(maxRow)
	a.EnsureColExists(maxCol)
}

func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	padding := 2
	innerW := min(40, w-6-padding*2)
	lines := wrapText(help, innerW)
	if maxLines := h - 6 - padding*2; len(lines) > maxLines {
		lines = lines[:max(0, maxLines)]
	}
	innerH := max(3, len(lines))

	pw := innerW + padding*2
	ph := innerH + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)
	drawBox(s, left, top, pw, ph, style)
	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+i, ln, style, innerW)
	}
}

// drawBox clears a w×h rectangle and frames it.
func drawBox(s tcell.Screen, left, top, w, h int, style tcell.Style) {
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	for x := left; x < left+w; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+h-1, tcell.RuneHLine, nil, style)
	}
	for y := top; y < top+h; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+w-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+w-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+h-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+w-1, top+h-1, tcell.RuneLRCorner, nil, style)
}

// wrapText breaks s into lines of at most width runes, keeping blank lines.
func wrapText(s string, width int) []string {
	if width <= 2 {
		return []string{s}
	}
	var result []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			result = append(result, "")
			continue
		}
		cur := ""
		for _, word := range words {
			for runeLen(word) > width {
				if cur != "" {
					result = append(result, cur)
					cur = ""
				}
				r := []rune(word)
				result = append(result, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case cur == "":
				cur = word
			case runeLen(cur)+1+runeLen(word) <= width:
				cur += " " + word
			default:
				result = append(result, cur)
				cur = word
			}
		}
		if cur != "" {
			result = append(result, cur)
		}
	}
	return result
}

func runeLen(s string) int {
	return len([]rune(s))
}

// ----------------------------- Viewport / Geometry -----------------------------

// ComputeVisible returns how many rows and columns fit from the current view
// origin.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	usableW := max(1, w-a.LeftGutter)
	visibleRows = max(1, h-a.StatusLines-1)

	sumW := 0
	for c := a.ViewCol; c < len(a.ColWidths); c++ {
		if sumW+a.ColWidths[c] > usableW {
			break
		}
		sumW += a.ColWidths[c]
		visibleCols++
	}
	return visibleRows, max(1, visibleCols)
}

func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	visibleRows, visibleCols := a.ComputeVisible(s)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+visibleCols {
		a.ViewCol = a.CurCol - visibleCols + 1
	}
	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+visibleRows {
		a.ViewRow = a.CurRow - visibleRows + 1
	}
	a.ViewCol = min(max(0, a.ViewCol), max(0, len(a.ColWidths)-1))
	a.ViewRow = min(max(0, a.ViewRow), max(0, a.Rows-1))
}
