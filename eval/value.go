package eval

// This file contains the runtime representations of lox values.
// Every value implements the Value interface; the concrete type is
// the tag of the union and is switched on at each operator site.

import (
	"math"
	"strconv"
)

type ValueType uint8

const (
	_ = ValueType(iota)
	VT_NIL
	VT_BOOLEAN
	VT_NUMBER
	VT_STRING
	VT_FUNCTION
	VT_BUILTIN
	VT_CLASS
	VT_TRAIT
	VT_INSTANCE
	// declared but not yet initialised
	VT_HOLE
)

var valueTypeNames = [...]string{
	VT_NIL:      "nil",
	VT_BOOLEAN:  "boolean",
	VT_NUMBER:   "number",
	VT_STRING:   "string",
	VT_FUNCTION: "function",
	VT_BUILTIN:  "native function",
	VT_CLASS:    "class",
	VT_TRAIT:    "trait",
	VT_INSTANCE: "instance",
	VT_HOLE:     "hole",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) && valueTypeNames[t] != "" {
		return valueTypeNames[t]
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

type Value interface {
	Type() ValueType
	String() string
}

// -----------------
// Boxed value types
// -----------------

type Nil struct{}
type Boolean bool
type Number float64
type String string

type hole struct{}

func (v Nil) Type() ValueType     { return VT_NIL }
func (v Boolean) Type() ValueType { return VT_BOOLEAN }
func (v Number) Type() ValueType  { return VT_NUMBER }
func (v String) Type() ValueType  { return VT_STRING }
func (v hole) Type() ValueType    { return VT_HOLE }

func (v Nil) String() string { return "nil" }
func (v Boolean) String() string {
	if v {
		return "true"
	}
	return "false"
}

// String prints integral numbers without a fractional part.
func (v Number) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v String) String() string { return string(v) }
func (v hole) String() string   { return "<uninitialized>" }

// ==========
// Singletons
// ==========

var (
	NIL   = Nil{}
	TRUE  = Boolean(true)
	FALSE = Boolean(false)
	// HOLE marks a binding that has been declared but not initialised.
	HOLE = Value(hole{})
)

func newBool(b bool) Value {
	if b {
		return TRUE
	}
	return FALSE
}

func isTruthy(v Value) bool { return v != FALSE && v != NIL }

// isEqual: values of different types are never equal; reference
// types compare by identity.
func isEqual(a, b Value) bool { return a == b }
