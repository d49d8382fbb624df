package app

import (
	"github.com/gdamore/tcell/v2"
)

const popupMaxInput = 4096

// lineEditor is the single-line input of a popup.
type lineEditor struct {
	buf []rune
	pos int
}

func newLineEditor(initial string) *lineEditor {
	buf := []rune(initial)
	return &lineEditor{buf: buf, pos: len(buf)}
}

func (e *lineEditor) String() string { return string(e.buf) }

// handle applies one key. done reports that editing finished; ok is false
// when it was cancelled.
func (e *lineEditor) handle(ev *tcell.EventKey) (done, ok bool) {
	switch ev.Key() {
	case tcell.KeyEsc:
		return true, false
	case tcell.KeyEnter:
		return true, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.pos > 0 {
			e.buf = append(e.buf[:e.pos-1], e.buf[e.pos:]...)
			e.pos--
		}
	case tcell.KeyDelete:
		if e.pos < len(e.buf) {
			e.buf = append(e.buf[:e.pos], e.buf[e.pos+1:]...)
		}
	case tcell.KeyLeft:
		if e.pos > 0 {
			e.pos--
		}
	case tcell.KeyRight:
		if e.pos < len(e.buf) {
			e.pos++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		e.pos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		e.pos = len(e.buf)
	case tcell.KeyCtrlU:
		e.buf, e.pos = e.buf[:0], 0
	case tcell.KeyRune:
		if len(e.buf) < popupMaxInput {
			e.buf = append(e.buf[:e.pos], append([]rune{ev.Rune()}, e.buf[e.pos:]...)...)
			e.pos++
		}
	}
	return false, false
}

// PopupInput shows a modal input box over the sheet and returns the entered
// text with true on Enter, or "" and false on Esc.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)
	promptRunes := []rune(prompt)
	ed := newLineEditor(initial)

	redraw := func() {
		a.Draw(s)
		w, h := s.Size()
		boxW := max(24, min(w-4, 60))
		boxH := 3
		left := (w - boxW) / 2
		top := (h - boxH) / 2
		drawBox(s, left, top, boxW, boxH, style)

		x, y := left+2, top+1
		a.printTextFixedWidth(s, x, y, prompt, style, len(promptRunes))
		x += len(promptRunes) + 1

		field := max(1, boxW-4-len(promptRunes)-1)
		start := 0
		if ed.pos > field {
			start = ed.pos - field
		}
		end := min(len(ed.buf), start+field)
		a.printTextFixedWidth(s, x, y, string(ed.buf[start:end]), style, field)
		s.ShowCursor(x+ed.pos-start, y)
		s.Show()
	}

	redraw()
	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			if done, ok := ed.handle(ev); done {
				s.HideCursor()
				if !ok {
					return "", false
				}
				return ed.String(), true
			}
		case *tcell.EventResize:
			s.Sync()
		case nil:
			return "", false
		}
		redraw()
	}
}
