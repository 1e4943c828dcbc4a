package command

import (
	"github.com/karussell/bach/pkg/errors"
)

// Optioned is implemented by tool option types. Options returns the
// option descriptors in declaration order; the projector walks them
// exactly once, so the token sequence mirrors the declaration.
type Optioned interface {
	Options() []Option
}

type optionKind int

const (
	kindDerived optionKind = iota
	kindPassthrough
	kindFlag
	kindValued
)

// Option describes how one declared option projects to tokens
type Option struct {
	kind   optionKind
	name   string
	set    bool
	value  interface{}
	values []string
	derive func() []string
}

// Derived declares an option whose tokens come from a bespoke accessor,
// evaluated at projection time. Used for options that need derivation,
// like assembling a joined path-list value or suppressing a default.
func Derived(derive func() []string) Option {
	return Option{kind: kindDerived, derive: derive}
}

// Passthrough declares the additional-arguments option: its values are
// appended verbatim.
func Passthrough(values []string) Option {
	return Option{kind: kindPassthrough, values: values}
}

// Flag declares a boolean option projecting to a single "-name" token
// when set and to nothing otherwise.
func Flag(name string, set bool) Option {
	return Option{kind: kindFlag, name: name, set: set}
}

// Valued declares an option projecting to "-name" followed by the
// value's string form. The pair is emitted unconditionally, even for a
// zero value; tools that must suppress defaults use Derived instead.
// This mirrors long-standing behavior that existing setups rely on.
func Valued(name string, value interface{}) Option {
	return Option{kind: kindValued, name: name, value: value}
}

// AddOptions projects a structured options value into tokens, one
// declared option at a time. A nil value is a no-op; a value that does
// not expose an option schema is a PROJECTION error.
func (c *Command) AddOptions(options interface{}) *Command {
	if c.err != nil || options == nil {
		return c
	}
	optioned, ok := options.(Optioned)
	if !ok {
		c.err = errors.Newf(errors.ErrProjection, "options %T expose no option schema", options)
		return c
	}
	for _, option := range optioned.Options() {
		c.addOption(option)
	}
	return c
}

func (c *Command) addOption(option Option) {
	if c.err != nil {
		return
	}
	switch option.kind {
	case kindDerived:
		for _, token := range option.derive() {
			c.arguments = append(c.arguments, token)
		}
	case kindPassthrough:
		for _, token := range option.values {
			c.arguments = append(c.arguments, token)
		}
	case kindFlag:
		if option.set {
			c.arguments = append(c.arguments, "-"+option.name)
		}
	case kindValued:
		c.arguments = append(c.arguments, "-"+option.name, stringify(option.value))
	}
}
