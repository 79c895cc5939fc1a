package mapping

import (
	"reflect"

	"go.trai.ch/zerr"

	"caster/internal/analyze"
)

// Constructor is a function building a destination from named arguments.
// Each parameter is filled from the source member of the same name.
type Constructor struct {
	Func

	Params      []string
	Destination reflect.Type
	// Pointer is set when the function returns *Destination.
	Pointer bool
}

// NewConstructor validates fn against its parameter names. The function
// returns the destination (or a pointer to it), optionally with an error.
func NewConstructor(fn any, params ...string) (*Constructor, error) {
	desc, err := ParseFunc(fn)
	if err != nil {
		return nil, err
	}

	if desc.HasBool {
		return nil, zerr.With(zerr.Wrap(ErrInvalidFunc, "constructor cannot report a bool"), "func", desc.String())
	}

	if len(desc.In) != len(params) {
		return nil, zerr.With(
			zerr.With(zerr.Wrap(ErrInvalidFunc, "parameter names do not match the signature"), "func", desc.String()),
			"params", params,
		)
	}

	c := &Constructor{Func: desc, Params: params, Destination: desc.Out}
	if desc.Out.Kind() == reflect.Pointer && analyze.IsStructLike(desc.Out) {
		c.Destination = desc.Out.Elem()
		c.Pointer = true
	}

	return c, nil
}

// Construct calls the constructor and returns the destination value, never a
// pointer to it.
func (c *Constructor) Construct(args []any) (reflect.Value, error) {
	out, _, err := c.Call(args...)
	if err != nil {
		return reflect.Value{}, err
	}

	v := reflect.ValueOf(out)
	if !v.IsValid() {
		return reflect.Zero(c.Destination), nil
	}

	if c.Pointer {
		if v.IsNil() {
			return reflect.Zero(c.Destination), nil
		}

		return v.Elem(), nil
	}

	return v, nil
}
