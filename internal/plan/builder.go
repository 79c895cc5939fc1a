package plan

import (
	"reflect"
	"slices"
	"strconv"

	"go.trai.ch/zerr"

	"caster/expression"
	"caster/internal/analyze"
	"caster/internal/diagnostic"
	"caster/internal/mapping"
)

type mode int

const (
	// modeCompile inlines the root map only; nested maps bind lazily
	// through the plan cache, so recursive types compile.
	modeCompile mode = iota
	// modeProject inlines every nested map into one expression.
	modeProject
)

var (
	anyType  = reflect.TypeFor[any]()
	boolType = reflect.TypeFor[bool]()
	ctxType  = reflect.TypeFor[*mapping.ResolutionContext]()
)

// builder turns the strategies resolved for a pair into an expression.
type builder struct {
	e     *Engine
	mode  mode
	depth int
	ctx   *expression.Parameter
	names map[string]int
	// stack holds the type maps being inlined in projection mode.
	stack []mapping.TypePair
	// check, when set, collects member problems instead of failing.
	check *validation
	// into, when set, replaces the construction of the first destination
	// built, so an existing value is mapped onto.
	into *expression.Parameter
}

func newBuilder(e *Engine, m mode) *builder {
	b := &builder{e: e, mode: m, names: map[string]int{}}
	b.ctx = b.param("ctx", ctxType)

	return b
}

// param creates a parameter named after prefix, numbered from its second use.
func (b *builder) param(prefix string, t reflect.Type) *expression.Parameter {
	b.names[prefix]++

	name := prefix
	if n := b.names[prefix]; n > 1 {
		name += strconv.Itoa(n)
	}

	return expression.NewParameter(name, t)
}

func (b *builder) nested() bool {
	return b.depth > 1
}

// root builds the lambda mapping a pair.Source value to pair.Destination.
func (b *builder) root(pair mapping.TypePair) (*expression.Lambda, error) {
	src := b.param("src", pair.Source)

	body, err := b.build(src, pair)
	if err != nil {
		return nil, err
	}

	return &expression.Lambda{Parameters: []*expression.Parameter{src, b.ctx}, Body: body}, nil
}

// build converts in to pair.Destination with the strategy resolved for pair.
func (b *builder) build(in expression.Node, pair mapping.TypePair) (expression.Node, error) {
	s, err := b.e.Resolve(pair)
	if err != nil {
		return nil, err
	}

	b.depth++
	defer func() { b.depth-- }()

	return s.Build(b, pair, in)
}

func (b *builder) typeMapFor(pair mapping.TypePair) (*mapping.TypeMap, bool) {
	if tm, ok := b.e.store.TypeMap(pair); ok {
		return tm, true
	}

	if !b.e.store.HasTemplate(pair) {
		return nil, false
	}

	tm, err := b.e.store.Instantiate(pair)

	return tm, err == nil
}

func (b *builder) typeMapInit(tm *mapping.TypeMap, in expression.Node) (expression.Node, error) {
	init, err := b.memberInit(tm, in)
	if err != nil {
		return nil, err
	}

	return init, nil
}

// memberInit builds the destination of tm from in: construction first,
// then every member of the layout in order.
func (b *builder) memberInit(tm *mapping.TypeMap, in expression.Node) (*expression.MemberInit, error) {
	pair := tm.Pair

	if b.mode == modeProject {
		if slices.Contains(b.stack, pair) {
			return nil, zerr.With(zerr.Wrap(mapping.ErrUnsupportedProjection, "recursive type map"), "pair", pair.String())
		}

		b.stack = append(b.stack, pair)
		defer func() { b.stack = b.stack[:len(b.stack)-1] }()
	}

	l := b.e.store.LayoutOf(tm)
	if l.Problems.HasErrors() {
		if b.check == nil {
			return nil, &mapping.ConfigurationError{Diagnostics: l.Problems}
		}

		if _, registered := b.e.store.Pending(pair); !registered {
			b.check.merge(pair, l.Problems)
		}
	}

	target := b.param("dst", pair.Destination)

	var (
		ctor expression.Node
		err  error
	)

	if b.into != nil {
		ctor, b.into = b.into, nil
	} else if ctor, err = b.construct(l, in); err != nil {
		if b.check == nil {
			return nil, err
		}

		b.check.add(diagnostic.CodeInvalidConstruct, err, pair, "")
		ctor = &expression.New{T: pair.Destination}
	}

	init := &expression.MemberInit{New: ctor, Target: target, Source: pair.Source, T: pair.Destination}

	for _, m := range l.Members {
		bind, err := b.binding(m, in, target)
		if err != nil {
			if b.check == nil {
				return nil, err
			}

			b.check.add(diagnostic.CodeUnresolvablePair, err, pair, m.Name)

			continue
		}

		init.Bindings = append(init.Bindings, bind)
	}

	return init, nil
}

// binding builds the assignment of one member: preconditions, the raw
// source value with its null substitute, conditions over the raw value,
// then the converted value.
func (b *builder) binding(m mapping.MemberPlan, in expression.Node, target *expression.Parameter) (*expression.Binding, error) {
	rawType := m.SourceType()
	if rawType == nil {
		rawType = anyType
	}

	var src expression.Node
	if m.SourceFunc != nil {
		src = &expression.Call{Name: "mapFrom", Func: valueCall(m.SourceFunc), Args: []expression.Node{in, b.ctx}, T: rawType}
	} else {
		src = b.path(in, m.Steps)
	}

	if m.HasNullSubstitute && m.NullSubstitute != nil {
		src = &expression.Coalesce{Operand: src, Fallback: substitute(m.NullSubstitute, rawType)}
	}

	raw := b.param("v", rawType)
	bind := &expression.Binding{Member: m.Name, Index: m.Index, T: m.Type, Source: src, Raw: raw}

	for _, pc := range m.PreConditions {
		bind.PreConditions = append(bind.PreConditions, &expression.Call{
			Name: ruleName("precondition", pc.Service),
			Func: preConditionCall(pc),
			Args: []expression.Node{in, target, b.ctx},
			T:    boolType,
		})
	}

	current := &expression.Member{Operand: target, Name: m.Name, Index: m.Index, T: m.Type}

	for _, c := range m.Conditions {
		bind.Conditions = append(bind.Conditions, &expression.Call{
			Name: ruleName("condition", c.Service),
			Func: conditionCall(c),
			Args: []expression.Node{in, target, raw, current, b.ctx},
			T:    boolType,
		})
	}

	var value expression.Node = raw

	if c := m.Converter; c != nil {
		out := c.Output
		if out == nil {
			out = anyType
		}

		value = &expression.Call{Name: ruleName("convert", c.Service), Func: converterCall(*c), Args: []expression.Node{raw, b.ctx}, T: out}
	}

	v, err := b.build(value, mapping.NewTypePair(value.Type(), m.Type))
	if err != nil {
		return nil, err
	}

	bind.Value = v

	return bind, nil
}

// path reads a resolved member path from in.
func (b *builder) path(in expression.Node, steps []analyze.Accessor) expression.Node {
	cur := in
	for _, s := range steps {
		cur = &expression.Member{Operand: cur, Name: s.Name, Index: s.Index, Method: s.Method, T: s.Type}
	}

	return cur
}

// substitute is the constant replacing a nil raw value, shaped as raw.
func substitute(sub any, raw reflect.Type) expression.Node {
	st := reflect.TypeOf(sub)

	var n expression.Node = &expression.Constant{Value: sub, T: st}

	target := raw
	if raw.Kind() == reflect.Pointer && !st.AssignableTo(raw) {
		target = raw.Elem()
	}

	if !st.AssignableTo(target) {
		n = &expression.Convert{Operand: n, T: target}
	}

	if target != raw {
		n = &expression.Wrap{Operand: n, T: raw}
	}

	return n
}

// track builds the identity preserving map of a pointer to a mapped struct.
func (b *builder) track(tm *mapping.TypeMap, in expression.Node) (expression.Node, error) {
	p := b.param("s", tm.Pair.Source)

	init, err := b.memberInit(tm, p)
	if err != nil {
		return nil, err
	}

	return &expression.Track{Operand: in, Param: p, Init: init, T: reflect.PointerTo(tm.Pair.Destination)}, nil
}

// dispatch defers the choice of map to the runtime type of in. Projections
// spell the choice out as a type switch.
func (b *builder) dispatch(pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	if b.mode == modeCompile {
		return &expression.Dispatch{Operand: in, Source: pair.Source, Destination: pair.Destination}, nil
	}

	return b.typeSwitch(pair, in)
}

// target maps the struct in through the map t chosen for one of its
// ancestors.
func (b *builder) target(in expression.Node, pair mapping.TypePair, t Target) (expression.Node, error) {
	n := in

	if base := t.Pair.Source; base != analyze.Indirect(pair.Source) {
		index, _ := analyze.EmbedPath(pair.Source, base)
		n = &expression.Member{Operand: in, Name: base.Name(), Index: index, T: base}
	}

	body, err := b.build(n, t.Pair)
	if err != nil {
		return nil, err
	}

	return fit(body, t, pair.Destination), nil
}

// fit shapes the result of the map t as dst.
func fit(n expression.Node, t Target, dst reflect.Type) expression.Node {
	if t.Pointer {
		n = &expression.Wrap{Operand: n, T: reflect.PointerTo(t.Pair.Destination)}
	}

	if n.Type() != dst {
		n = &expression.Convert{Operand: n, T: dst}
	}

	return n
}

func ruleName(kind string, service reflect.Type) string {
	if service == nil {
		return kind
	}

	return kind + "[" + service.String() + "]"
}

func valueCall(fn mapping.ValueFunc) expression.CallFunc {
	return func(args []any) (any, bool, error) {
		v, err := fn(args[0], contextOf(args[1]))

		return v, err == nil, err
	}
}

func preConditionCall(r mapping.PreConditionRule) expression.CallFunc {
	return func(args []any) (any, bool, error) {
		ok, err := r.Eval(args[0], args[1], contextOf(args[2]))

		return ok, err == nil, err
	}
}

func conditionCall(r mapping.ConditionRule) expression.CallFunc {
	return func(args []any) (any, bool, error) {
		ok, err := r.Eval(args[0], args[1], args[2], args[3], contextOf(args[4]))

		return ok, err == nil, err
	}
}

func converterCall(r mapping.ConverterRule) expression.CallFunc {
	return func(args []any) (any, bool, error) {
		return r.Eval(args[0], contextOf(args[1]))
	}
}

func contextOf(v any) *mapping.ResolutionContext {
	rc, _ := v.(*mapping.ResolutionContext)

	return rc
}
