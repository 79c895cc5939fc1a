package mapping

import (
	"path"
	"reflect"
	"runtime"
	"strings"

	"go.trai.ch/zerr"

	"caster/internal/match"
)

var errorType = reflect.TypeFor[error]()

// Func describes a user function accepted as a converter or a constructor.
type Func struct {
	Value        reflect.Value
	In           []reflect.Type
	Out          reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool
}

// ParseFunc inspects fn and returns its description.
//
// Supported results:
//   - (dst Type)
//   - (dst Type, bool)
//   - (dst Type, error)
//   - (dst Type, bool, error)
func ParseFunc(fn any) (Func, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Func{}, zerr.Wrap(ErrInvalidFunc, "not a function")
	}

	fnType := fnVal.Type()
	if fnType.IsVariadic() || fnType.NumOut() == 0 {
		return Func{}, zerr.With(zerr.Wrap(ErrInvalidFunc, "unrecognized signature"), "func", fnType.String())
	}

	desc := Func{
		Value: fnVal,
		Out:   fnType.Out(0),
	}

	for i := range fnType.NumIn() {
		desc.In = append(desc.In, fnType.In(i))
	}

	desc.PackageAlias, desc.Name = funcName(fnVal)

	switch fnType.NumOut() {
	default:
		return Func{}, zerr.With(zerr.Wrap(ErrInvalidFunc, "unrecognized signature"), "func", fnType.String())

	case 1:
		return desc, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Func{}, zerr.With(zerr.Wrap(ErrInvalidFunc, "unrecognized signature"), "func", fnType.String())
		case last.Kind() == reflect.Bool:
			desc.HasBool = true
		case isError(last):
			desc.HasErr = true
		}

		return desc, nil

	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || !isError(fnType.Out(2)) {
			return Func{}, zerr.With(zerr.Wrap(ErrInvalidFunc, "unrecognized signature"), "func", fnType.String())
		}

		desc.HasBool = true
		desc.HasErr = true

		return desc, nil
	}
}

// String returns "alias.Name".
func (f Func) String() string {
	if f.PackageAlias == "" {
		return f.Name
	}

	return f.PackageAlias + "." + f.Name
}

// Call invokes the function with args fitted to its parameter types.
func (f Func) Call(args ...any) (any, bool, error) {
	in := make([]reflect.Value, len(args))

	for i, a := range args {
		v, err := fit(a, f.In[i])
		if err != nil {
			return nil, false, zerr.With(err, "func", f.String())
		}

		in[i] = v
	}

	results := f.Value.Call(in)

	ok := true
	if f.HasBool {
		ok = results[1].Bool()
	}

	if f.HasErr {
		if e := results[len(results)-1]; !e.IsNil() {
			return nil, false, e.Interface().(error)
		}
	}

	return results[0].Interface(), ok, nil
}

// ParseConverter returns a converter rule calling fn, which takes the source
// member value. A false bool result leaves the destination member unassigned.
func ParseConverter(fn any) (ConverterRule, error) {
	desc, err := ParseFunc(fn)
	if err != nil {
		return ConverterRule{}, err
	}

	if len(desc.In) != 1 {
		return ConverterRule{}, zerr.With(zerr.Wrap(ErrInvalidFunc, "converter takes exactly one argument"), "func", desc.String())
	}

	return ConverterRule{
		Input:  desc.In[0],
		Output: desc.Out,
		call: func(value any) (any, bool, error) {
			return desc.Call(value)
		},
	}, nil
}

// fit adapts a dynamically typed argument to t: nil becomes the zero value,
// pointers are dereferenced and value preserving conversions applied.
func fit(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)

	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case v.Kind() == reflect.Pointer && v.Type().Elem().AssignableTo(t):
		if v.IsNil() {
			return reflect.Zero(t), nil
		}

		return v.Elem(), nil
	case match.Convertible(v.Type(), t):
		return v.Convert(t), nil
	}

	return reflect.Value{}, zerr.With(
		zerr.Wrap(ErrInvalidFunc, "argument of type "+v.Type().String()+" does not fit "+t.String()),
		"param", t.String(),
	)
}

func funcName(fn reflect.Value) (alias, name string) {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return "", ""
	}

	_, file := path.Split(rf.Name())
	alias, name, _ = strings.Cut(file, ".")

	return alias, name
}

func isError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}
