package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrLabel = errors.New("invalid column label")
	ErrRef   = errors.New("invalid cell reference")
)

// Ref identifies one cell of an unbounded grid by zero-based row and column.
// Two refs are equal iff their coordinates are equal.
type Ref struct {
	Row int
	Col int
}

// NewRef builds a reference from a column label such as "AB" and a 1-based
// row number. Row number 0 is accepted and yields row -1.
func NewRef(label string, row int) (Ref, error) {
	col, err := NameToCol(label)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Row: row - 1, Col: col}, nil
}

// ParseRef parses an absolute label like A1 or ZAAZB123. Only uppercase
// letters are accepted.
func ParseRef(name string) (Ref, error) {
	i := 0
	for i < len(name) && isUpper(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return Ref{}, fmt.Errorf("%w: %q", ErrRef, name)
	}
	for j := i; j < len(name); j++ {
		if !isDigit(name[j]) {
			return Ref{}, fmt.Errorf("%w: %q", ErrRef, name)
		}
	}
	row, err := strconv.Atoi(name[i:])
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q: %w", ErrRef, name, err)
	}
	return NewRef(name[:i], row)
}

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	var buf []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('A'+(n-1)%26))
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return string(buf)
}

// NameToCol is the inverse of ColToName: A -> 0, Z -> 25, AA -> 26.
func NameToCol(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%w: empty", ErrLabel)
	}
	col := 0
	for i := 0; i < len(label); i++ {
		if !isUpper(label[i]) {
			return 0, fmt.Errorf("%w: %q", ErrLabel, label)
		}
		if col > (math.MaxInt-26)/26 {
			return 0, fmt.Errorf("%w: %q overflows", ErrLabel, label)
		}
		col = col*26 + int(label[i]-'A') + 1
	}
	return col - 1, nil
}

// String returns the absolute label, e.g. "AA3".
func (r Ref) String() string {
	return ColToName(r.Col) + strconv.Itoa(r.Row+1)
}

// Relative returns the r<row>c<col> notation of r measured from A1.
func (r Ref) Relative() string {
	return fmt.Sprintf("r%dc%d", r.Row, r.Col)
}

// Offset derives the reference dr rows and dc columns away from r. It fails
// when either coordinate would fall off the top or left edge.
func (r Ref) Offset(dr, dc int) (Ref, bool) {
	row, col := r.Row+dr, r.Col+dc
	if row < 0 || col < 0 {
		return Ref{}, false
	}
	return Ref{Row: row, Col: col}, true
}

// Less orders refs row-major.
func (r Ref) Less(o Ref) bool {
	if r.Row != o.Row {
		return r.Row < o.Row
	}
	return r.Col < o.Col
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
