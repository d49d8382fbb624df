package grid

import "strconv"

type Kind int

const (
	Empty Kind = iota
	Int
	Str
)

// Value is the computed content of a cell: empty, an integer or a string.
// The zero Value is empty.
type Value struct {
	kind Kind
	i    int
	s    string
}

func IntValue(i int) Value    { return Value{kind: Int, i: i} }
func StrValue(s string) Value { return Value{kind: Str, s: s} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsEmpty() bool { return v.kind == Empty }

// Int returns the integer and whether v holds one.
func (v Value) Int() (int, bool) {
	return v.i, v.kind == Int
}

// Str returns the string and whether v holds one.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == Str
}

// Add is defined for two integers only; anything else is empty.
func (v Value) Add(o Value) Value {
	if v.kind != Int || o.kind != Int {
		return Value{}
	}
	return IntValue(v.i + o.i)
}

// Mul is defined for two integers only; anything else is empty.
func (v Value) Mul(o Value) Value {
	if v.kind != Int || o.kind != Int {
		return Value{}
	}
	return IntValue(v.i * o.i)
}

func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.Itoa(v.i)
	case Str:
		return v.s
	}
	return ""
}

// Contents pairs the expression text last assigned to a cell with its most
// recently computed value.
type Contents struct {
	Expression string
	Value      Value
}
