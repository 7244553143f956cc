package eval

import "lox/lexer"

// This file contains the object model: classes, traits and instances.
//
// Method tables are flattened once, when a class or trait is defined,
// so a lookup is a single map access no matter how deep the
// inheritance chain is. Sources are applied in order, later ones
// overriding earlier ones for the same name:
//
//     superclass -> traits (in `with' order) -> own methods

type methodTable map[string]*Function

func (mt methodTable) merge(other methodTable) {
	for name, fn := range other {
		mt[name] = fn
	}
}

// Trait is a named, unbound method table. Its methods get `this' only
// when looked up through an instance of a class that adopted it.
type Trait struct {
	Name    string
	methods methodTable
}

func newTrait(name string, traits []*Trait, own methodTable) *Trait {
	methods := methodTable{}
	for _, t := range traits {
		methods.merge(t.methods)
	}
	methods.merge(own)
	return &Trait{Name: name, methods: methods}
}

func (v *Trait) Type() ValueType { return VT_TRAIT }
func (v *Trait) String() string  { return "<trait " + v.Name + ">" }

type Class struct {
	Name       string
	superclass *Class
	methods    methodTable
}

func newClass(name string, superclass *Class, traits []*Trait, own methodTable) *Class {
	methods := methodTable{}
	if superclass != nil {
		methods.merge(superclass.methods)
	}
	for _, t := range traits {
		methods.merge(t.methods)
	}
	methods.merge(own)
	return &Class{
		Name:       name,
		superclass: superclass,
		methods:    methods,
	}
}

func (v *Class) Type() ValueType { return VT_CLASS }
func (v *Class) String() string  { return v.Name }

// Superclass returns the class this one inherits from, or nil.
func (v *Class) Superclass() *Class { return v.superclass }

// FindMethod looks the name up in the flattened method table.
func (v *Class) FindMethod(name string) (*Function, bool) {
	fn, ok := v.methods[name]
	return fn, ok
}

// Arity of a class is the arity of its initializer.
func (v *Class) Arity() int {
	if init, ok := v.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (v *Class) Call(ctx *Context, args []Value) (Value, error) {
	instance := newInstance(v)
	if init, ok := v.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(ctx, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

type Instance struct {
	class  *Class
	fields map[string]Value
}

func newInstance(class *Class) *Instance {
	return &Instance{
		class:  class,
		fields: map[string]Value{},
	}
}

func (v *Instance) Type() ValueType { return VT_INSTANCE }
func (v *Instance) String() string  { return v.class.Name + " instance" }
func (v *Instance) Class() *Class   { return v.class }

// Get returns a field, or failing that a freshly bound method.
// Fields shadow methods of the same name.
func (v *Instance) Get(name lexer.Token) (Value, error) {
	if value, ok := v.fields[name.Lexeme]; ok {
		return value, nil
	}
	if method, ok := v.class.FindMethod(name.Lexeme); ok {
		return method.Bind(v), nil
	}
	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

func (v *Instance) Set(name lexer.Token, value Value) {
	v.fields[name.Lexeme] = value
}
