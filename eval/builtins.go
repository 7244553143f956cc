package eval

import "time"

// =================
// Builtin functions
// =================

// BuiltinNames lists the natives defined in every global environment,
// so that a resolver can be told about them.
var BuiltinNames = []string{"clock", "str"}

func setupBuiltins(env *Environment) {
	env.Define("clock", newBuiltin("clock", 0, bi_clock))
	env.Define("str", newBuiltin("str", 1, bi_str))
}

// -----
// clock
// -----
func bi_clock(ctx *Context, args []Value) (Value, error) {
	return Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}

// ---
// str
// ---
func bi_str(ctx *Context, args []Value) (Value, error) {
	return String(args[0].String()), nil
}
