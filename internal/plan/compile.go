package plan

import (
	"reflect"
	"sync"

	"go.trai.ch/zerr"

	"caster/expression"
	"caster/internal/analyze"
	"caster/internal/mapping"
	"caster/internal/match"
)

// ErrIncompatible is returned when a value cannot be stored in the member
// or element it was mapped to.
var ErrIncompatible = zerr.New("incompatible value")

// evalFunc evaluates a node. An invalid result means the node produced no
// value, which leaves a member binding unassigned.
type evalFunc func(f *frame) (reflect.Value, error)

// frame is the state of one plan invocation.
type frame struct {
	rc    *mapping.ResolutionContext
	slots []reflect.Value
}

// compiler turns an expression into closures. Parameters live in frame
// slots numbered at compile time.
type compiler struct {
	e     *Engine
	slots map[*expression.Parameter]int
}

func newCompiler(e *Engine) *compiler {
	return &compiler{e: e, slots: map[*expression.Parameter]int{}}
}

func (c *compiler) slot(p *expression.Parameter) int {
	if i, ok := c.slots[p]; ok {
		return i
	}

	i := len(c.slots)
	c.slots[p] = i

	return i
}

func (c *compiler) compileAll(nodes []expression.Node) ([]evalFunc, error) {
	out := make([]evalFunc, len(nodes))

	for i, n := range nodes {
		fn, err := c.compile(n)
		if err != nil {
			return nil, err
		}

		out[i] = fn
	}

	return out, nil
}

//nolint:cyclop,gocyclo,funlen // one case per node kind
func (c *compiler) compile(n expression.Node) (evalFunc, error) {
	switch n := n.(type) {
	case *expression.Parameter:
		i := c.slot(n)

		return func(f *frame) (reflect.Value, error) { return f.slots[i], nil }, nil

	case *expression.Constant:
		v := reflect.Zero(n.T)
		if n.Value != nil {
			var err error
			if v, err = adapt(reflect.ValueOf(n.Value), n.T); err != nil {
				return nil, err
			}
		}

		return func(*frame) (reflect.Value, error) { return v, nil }, nil

	case *expression.New:
		t := n.T

		return func(*frame) (reflect.Value, error) { return reflect.New(t).Elem(), nil }, nil

	case *expression.Member:
		return c.member(n)

	case *expression.Call:
		return c.call(n)

	case *expression.Convert:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return nil, err
		}

		t := n.T

		return func(f *frame) (reflect.Value, error) {
			v, err := operand(f)
			if err != nil || !v.IsValid() {
				return v, err
			}

			return adapt(v, t)
		}, nil

	case *expression.Map:
		return c.mapNode(n)

	case *expression.Dispatch:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return nil, err
		}

		static := mapping.NewTypePair(n.Source, n.Destination)

		return func(f *frame) (reflect.Value, error) {
			v, err := operand(f)
			if err != nil || !v.IsValid() {
				return v, err
			}

			return c.e.dispatch(static, v, f.rc)
		}, nil

	case *expression.MemberInit:
		create, apply, err := c.memberInit(n)
		if err != nil {
			return nil, err
		}

		t := n.T

		return func(f *frame) (reflect.Value, error) {
			d := reflect.New(t).Elem()
			if err := create(f, d); err != nil {
				return reflect.Value{}, err
			}

			if err := apply(f, d); err != nil {
				return reflect.Value{}, err
			}

			return d, nil
		}, nil

	case *expression.Lambda:
		return c.compile(n.Body)

	case *expression.Select:
		return c.selectNode(n)

	case *expression.SelectEntries:
		return c.selectEntries(n)

	case *expression.Unwrap:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return nil, err
		}

		t := n.T

		return func(f *frame) (reflect.Value, error) {
			v, err := operand(f)
			if err != nil || !v.IsValid() {
				return v, err
			}

			v = elemInterface(v)
			if v.Kind() != reflect.Pointer {
				return v, nil
			}

			if v.IsNil() {
				return reflect.Zero(t), nil
			}

			return v.Elem(), nil
		}, nil

	case *expression.Wrap:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return nil, err
		}

		elem := n.T.Elem()

		return func(f *frame) (reflect.Value, error) {
			v, err := operand(f)
			if err != nil || !v.IsValid() {
				return v, err
			}

			inner, err := adapt(v, elem)
			if err != nil {
				return reflect.Value{}, err
			}

			p := reflect.New(elem)
			p.Elem().Set(inner)

			return p, nil
		}, nil

	case *expression.Guard:
		return c.guard(n)

	case *expression.Coalesce:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return nil, err
		}

		fallback, err := c.compile(n.Fallback)
		if err != nil {
			return nil, err
		}

		return func(f *frame) (reflect.Value, error) {
			v, err := operand(f)
			if err != nil {
				return reflect.Value{}, err
			}

			if !v.IsValid() || isNil(v) {
				return fallback(f)
			}

			return v, nil
		}, nil

	case *expression.TypeSwitch:
		return c.typeSwitch(n)

	case *expression.Track:
		return c.track(n)

	default:
		return nil, zerr.With(zerr.Wrap(mapping.ErrResolution, "unsupported expression node"), "kind", n.Kind().String())
	}
}

func (c *compiler) member(n *expression.Member) (evalFunc, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return nil, err
	}

	t, name, index, method := n.T, n.Name, n.Index, n.Method

	return func(f *frame) (reflect.Value, error) {
		v, err := operand(f)
		if err != nil {
			return reflect.Value{}, err
		}

		var (
			out reflect.Value
			ok  bool
		)

		if method {
			out, ok = callGetter(v, name)
		} else {
			out, ok = readField(v, index)
		}

		if !ok {
			return reflect.Zero(t), nil
		}

		if out.Type() != t && out.Kind() == reflect.Pointer && out.Type().Elem() == t {
			if out.IsNil() {
				return reflect.Zero(t), nil
			}

			return out.Elem(), nil
		}

		return out, nil
	}, nil
}

func (c *compiler) call(n *expression.Call) (evalFunc, error) {
	args, err := c.compileAll(n.Args)
	if err != nil {
		return nil, err
	}

	fn, t := n.Func, n.T

	return func(f *frame) (reflect.Value, error) {
		in := make([]any, len(args))

		for i, arg := range args {
			v, err := arg(f)
			if err != nil {
				return reflect.Value{}, err
			}

			in[i] = interfaceOf(v)
		}

		out, ok, err := fn(in)
		if err != nil {
			return reflect.Value{}, err
		}

		if !ok {
			return reflect.Value{}, nil
		}

		if out == nil {
			return reflect.Zero(t), nil
		}

		if t == anyType {
			return reflect.ValueOf(out), nil
		}

		return adapt(reflect.ValueOf(out), t)
	}, nil
}

// mapNode binds the nested plan on first use, so compiling a recursive
// type never waits on itself.
func (c *compiler) mapNode(n *expression.Map) (evalFunc, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return nil, err
	}

	pair := mapping.NewTypePair(n.Source, n.Destination)
	plan := sync.OnceValues(func() (*Plan, error) { return c.e.Plan(pair) })

	return func(f *frame) (reflect.Value, error) {
		v, err := operand(f)
		if err != nil || !v.IsValid() {
			return v, err
		}

		p, err := plan()
		if err != nil {
			return reflect.Value{}, err
		}

		return p.Run(v, f.rc)
	}, nil
}

type bindFunc func(f *frame, d reflect.Value) error

// memberInit compiles the construction and the bindings of n separately,
// so a tracked destination can be registered between the two.
func (c *compiler) memberInit(n *expression.MemberInit) (create, apply bindFunc, err error) {
	ctor, err := c.compile(n.New)
	if err != nil {
		return nil, nil, err
	}

	pair := mapping.NewTypePair(n.Source, n.T)
	target := c.slot(n.Target)

	binds := make([]bindFunc, 0, len(n.Bindings))

	for _, b := range n.Bindings {
		fn, err := c.binding(pair, b)
		if err != nil {
			return nil, nil, err
		}

		binds = append(binds, fn)
	}

	create = func(f *frame, d reflect.Value) error {
		v, err := ctor(f)
		if err != nil {
			return mapping.WrapMapping(err, pair, "")
		}

		v, err = adapt(v, d.Type())
		if err != nil {
			return mapping.WrapMapping(err, pair, "")
		}

		d.Set(v)

		return nil
	}

	apply = func(f *frame, d reflect.Value) error {
		f.slots[target] = d

		for _, bind := range binds {
			if err := bind(f, d); err != nil {
				return err
			}
		}

		return nil
	}

	return create, apply, nil
}

func (c *compiler) binding(pair mapping.TypePair, b *expression.Binding) (bindFunc, error) {
	pre, err := c.compileAll(b.PreConditions)
	if err != nil {
		return nil, err
	}

	source, err := c.compile(b.Source)
	if err != nil {
		return nil, err
	}

	raw := c.slot(b.Raw)

	conds, err := c.compileAll(b.Conditions)
	if err != nil {
		return nil, err
	}

	value, err := c.compile(b.Value)
	if err != nil {
		return nil, err
	}

	member, index := b.Member, b.Index
	fail := func(err error) error { return mapping.WrapMapping(err, pair, member) }

	return func(f *frame, d reflect.Value) error {
		for _, p := range pre {
			ok, err := p(f)
			if err != nil {
				return fail(err)
			}

			if !truthy(ok) {
				return nil
			}
		}

		v, err := source(f)
		if err != nil {
			return fail(err)
		}

		if !v.IsValid() {
			return nil
		}

		f.slots[raw] = v

		for _, cond := range conds {
			ok, err := cond(f)
			if err != nil {
				return fail(err)
			}

			if !truthy(ok) {
				return nil
			}
		}

		v, err = value(f)
		if err != nil {
			return fail(err)
		}

		if !v.IsValid() {
			return nil
		}

		field := fieldForWrite(d, index)

		v, err = adapt(v, field.Type())
		if err != nil {
			return fail(err)
		}

		field.Set(v)

		return nil
	}, nil
}

func (c *compiler) selectNode(n *expression.Select) (evalFunc, error) {
	source, err := c.compile(n.Source)
	if err != nil {
		return nil, err
	}

	item := c.slot(n.Selector.Parameters[0])

	body, err := c.compile(n.Selector)
	if err != nil {
		return nil, err
	}

	t := n.T
	elem := t.Elem()

	return func(f *frame) (reflect.Value, error) {
		s, err := source(f)
		if err != nil {
			return reflect.Value{}, err
		}

		s = elemInterface(s)
		if !s.IsValid() || isNil(s) {
			return reflect.Zero(t), nil
		}

		size := s.Len()

		var out reflect.Value
		if t.Kind() == reflect.Slice {
			out = reflect.MakeSlice(t, size, size)
		} else {
			out = reflect.New(t).Elem()
			size = min(size, t.Len())
		}

		for i := range size {
			f.slots[item] = s.Index(i)

			v, err := body(f)
			if err != nil {
				return reflect.Value{}, err
			}

			if !v.IsValid() {
				continue
			}

			if v, err = adapt(v, elem); err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(v)
		}

		return out, nil
	}, nil
}

func (c *compiler) selectEntries(n *expression.SelectEntries) (evalFunc, error) {
	source, err := c.compile(n.Source)
	if err != nil {
		return nil, err
	}

	keySlot := c.slot(n.Key.Parameters[0])
	valSlot := c.slot(n.Value.Parameters[0])

	key, err := c.compile(n.Key)
	if err != nil {
		return nil, err
	}

	val, err := c.compile(n.Value)
	if err != nil {
		return nil, err
	}

	t := n.T

	return func(f *frame) (reflect.Value, error) {
		s, err := source(f)
		if err != nil {
			return reflect.Value{}, err
		}

		s = elemInterface(s)
		if !s.IsValid() || isNil(s) {
			return reflect.Zero(t), nil
		}

		out := reflect.MakeMapWithSize(t, s.Len())

		for it := s.MapRange(); it.Next(); {
			f.slots[keySlot] = it.Key()
			f.slots[valSlot] = it.Value()

			k, err := key(f)
			if err != nil {
				return reflect.Value{}, err
			}

			v, err := val(f)
			if err != nil {
				return reflect.Value{}, err
			}

			if k, err = adapt(k, t.Key()); err != nil {
				return reflect.Value{}, err
			}

			if v, err = adapt(v, t.Elem()); err != nil {
				return reflect.Value{}, err
			}

			out.SetMapIndex(k, v)
		}

		return out, nil
	}, nil
}

func (c *compiler) guard(n *expression.Guard) (evalFunc, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return nil, err
	}

	param := c.slot(n.Param)

	body, err := c.compile(n.Body)
	if err != nil {
		return nil, err
	}

	t := n.T

	return func(f *frame) (reflect.Value, error) {
		v, err := operand(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if !v.IsValid() || isNil(v) {
			return reflect.Zero(t), nil
		}

		f.slots[param] = v

		out, err := body(f)
		if err != nil || !out.IsValid() {
			return out, err
		}

		return adapt(out, t)
	}, nil
}

func (c *compiler) typeSwitch(n *expression.TypeSwitch) (evalFunc, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return nil, err
	}

	type branch struct {
		t    reflect.Type
		slot int
		body evalFunc
	}

	branches := make([]branch, 0, len(n.Cases))

	for _, cs := range n.Cases {
		body, err := c.compile(cs.Body)
		if err != nil {
			return nil, err
		}

		branches = append(branches, branch{t: cs.Type, slot: c.slot(cs.Param), body: body})
	}

	var fallback evalFunc
	if n.Default != nil {
		if fallback, err = c.compile(n.Default); err != nil {
			return nil, err
		}
	}

	t := n.T

	return func(f *frame) (reflect.Value, error) {
		v, err := operand(f)
		if err != nil {
			return reflect.Value{}, err
		}

		v = elemInterface(v)
		if !v.IsValid() || isNil(v) {
			return reflect.Zero(t), nil
		}

		for _, br := range branches {
			up, ok := analyze.Upcast(v, br.t)
			if !ok {
				continue
			}

			f.slots[br.slot] = up

			out, err := br.body(f)
			if err != nil {
				return reflect.Value{}, err
			}

			return adapt(out, t)
		}

		if fallback == nil {
			return reflect.Value{}, &mapping.ResolutionError{Pair: mapping.NewTypePair(v.Type(), t)}
		}

		return fallback(f)
	}, nil
}

// track compiles the identity preserving map of a pointer: the destination
// is remembered before its members are mapped, so a cycle back to the same
// source pointer resolves to it.
func (c *compiler) track(n *expression.Track) (evalFunc, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return nil, err
	}

	param := c.slot(n.Param)

	create, apply, err := c.memberInit(n.Init)
	if err != nil {
		return nil, err
	}

	t := n.T

	return func(f *frame) (reflect.Value, error) {
		v, err := operand(f)
		if err != nil {
			return reflect.Value{}, err
		}

		v = elemInterface(v)
		if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
			return reflect.Zero(t), nil
		}

		if d, ok := f.rc.Instance(v, t); ok {
			return d, nil
		}

		ptr := reflect.New(t.Elem())
		f.rc.Remember(v, ptr)
		f.slots[param] = v.Elem()

		if err := create(f, ptr.Elem()); err != nil {
			return reflect.Value{}, err
		}

		if err := apply(f, ptr.Elem()); err != nil {
			return reflect.Value{}, err
		}

		return ptr, nil
	}, nil
}

// adapt shapes v as t: nil becomes the zero value, interfaces and pointers
// are unwrapped, values are wrapped into pointers and value preserving
// conversions applied.
func adapt(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}

	if v.Type() == t {
		return v, nil
	}

	if v.Kind() == reflect.Interface && !v.Type().AssignableTo(t) {
		if v.IsNil() {
			return reflect.Zero(t), nil
		}

		return adapt(v.Elem(), t)
	}

	from := v.Type()

	switch {
	case from.AssignableTo(t):
		return v.Convert(t), nil

	case from.Kind() == reflect.Pointer && fitsValue(from.Elem(), t):
		if v.IsNil() {
			return reflect.Zero(t), nil
		}

		return adapt(v.Elem(), t)

	case t.Kind() == reflect.Pointer && fitsValue(from, t.Elem()):
		inner, err := adapt(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		p := reflect.New(t.Elem())
		p.Elem().Set(inner)

		return p, nil

	case match.Convertible(from, t):
		return v.Convert(t), nil
	}

	return reflect.Value{}, zerr.With(
		zerr.Wrap(ErrIncompatible, "cannot store "+from.String()+" as "+t.String()),
		"type", t.String(),
	)
}

func fitsValue(from, to reflect.Type) bool {
	return from.AssignableTo(to) || match.Convertible(from, to)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func truthy(v reflect.Value) bool {
	v = elemInterface(v)

	return v.IsValid() && v.Kind() == reflect.Bool && v.Bool()
}

// elemInterface unwraps non-nil interface values.
func elemInterface(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	return v
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	return v.Interface()
}

// readField follows a field index path, dereferencing pointers on the way.
func readField(v reflect.Value, index []int) (reflect.Value, bool) {
	for _, i := range index {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return reflect.Value{}, false
			}

			v = v.Elem()
		}

		if v.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}

		v = v.Field(i)
	}

	return v, v.IsValid()
}

// callGetter calls the method name of v. A value that only has the method
// on its pointer is copied to an addressable location first.
func callGetter(v reflect.Value, name string) (reflect.Value, bool) {
	v = elemInterface(v)
	if !v.IsValid() || isNil(v) {
		return reflect.Value{}, false
	}

	m := v.MethodByName(name)
	if !m.IsValid() && v.Kind() != reflect.Pointer {
		if !v.CanAddr() {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			v = p.Elem()
		}

		m = v.Addr().MethodByName(name)
	}

	if !m.IsValid() {
		return reflect.Value{}, false
	}

	return m.Call(nil)[0], true
}

// fieldForWrite returns the settable field at index, allocating nil
// embedded pointers on the way.
func fieldForWrite(d reflect.Value, index []int) reflect.Value {
	v := d

	for i, x := range index {
		if i > 0 {
			for v.Kind() == reflect.Pointer {
				if v.IsNil() {
					v.Set(reflect.New(v.Type().Elem()))
				}

				v = v.Elem()
			}
		}

		v = v.Field(x)
	}

	return v
}
