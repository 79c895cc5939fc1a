package mapping

import (
	"reflect"

	"caster/internal/analyze"
)

// Condition gates the assignment of a destination member.
type Condition interface {
	Check(src, dst, srcMember, dstMember any, rc *ResolutionContext) bool
}

// PreCondition gates a destination member before its source value is read.
type PreCondition interface {
	Check(src, dst any, rc *ResolutionContext) bool
}

// ValueConverter turns a source member value into the destination member value.
type ValueConverter interface {
	Convert(value any, rc *ResolutionContext) (any, error)
}

// DestinationFactory creates the destination instance for a source.
type DestinationFactory interface {
	Create(src any, rc *ResolutionContext) (any, error)
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(src, dst, srcMember, dstMember any, rc *ResolutionContext) bool

// Check implements Condition.
func (f ConditionFunc) Check(src, dst, srcMember, dstMember any, rc *ResolutionContext) bool {
	return f(src, dst, srcMember, dstMember, rc)
}

// PreConditionFunc adapts a function to PreCondition.
type PreConditionFunc func(src, dst any, rc *ResolutionContext) bool

// Check implements PreCondition.
func (f PreConditionFunc) Check(src, dst any, rc *ResolutionContext) bool {
	return f(src, dst, rc)
}

// ValueConverterFunc adapts a function to ValueConverter.
type ValueConverterFunc func(value any, rc *ResolutionContext) (any, error)

// Convert implements ValueConverter.
func (f ValueConverterFunc) Convert(value any, rc *ResolutionContext) (any, error) {
	return f(value, rc)
}

// FactoryFunc adapts a function to DestinationFactory.
type FactoryFunc func(src any, rc *ResolutionContext) (any, error)

// Create implements DestinationFactory.
func (f FactoryFunc) Create(src any, rc *ResolutionContext) (any, error) {
	return f(src, rc)
}

// ValueFunc computes a destination member's source value from the whole source.
type ValueFunc func(src any, rc *ResolutionContext) (any, error)

var (
	conditionType    = reflect.TypeFor[Condition]()
	preConditionType = reflect.TypeFor[PreCondition]()
	converterType    = reflect.TypeFor[ValueConverter]()
	factoryType      = reflect.TypeFor[DestinationFactory]()
)

// ConditionRule is an inline condition or the type of a service condition.
type ConditionRule struct {
	Inline  Condition
	Service reflect.Type
}

// Eval runs the condition.
func (r ConditionRule) Eval(src, dst, srcMember, dstMember any, rc *ResolutionContext) (bool, error) {
	c := r.Inline
	if c == nil {
		var err error
		if c, err = resolveService[Condition](rc, r.Service); err != nil {
			return false, err
		}
	}

	return c.Check(src, dst, srcMember, dstMember, rc), nil
}

// PreConditionRule is an inline precondition or the type of a service precondition.
type PreConditionRule struct {
	Inline  PreCondition
	Service reflect.Type
}

// Eval runs the precondition.
func (r PreConditionRule) Eval(src, dst any, rc *ResolutionContext) (bool, error) {
	c := r.Inline
	if c == nil {
		var err error
		if c, err = resolveService[PreCondition](rc, r.Service); err != nil {
			return false, err
		}
	}

	return c.Check(src, dst, rc), nil
}

// ConverterRule converts a member value. Input and Output are the declared
// parameter and result types, nil when only known at run time.
type ConverterRule struct {
	Inline  ValueConverter
	Service reflect.Type
	Input   reflect.Type
	Output  reflect.Type

	call func(value any) (any, bool, error)
}

// Eval runs the converter. A false second result leaves the member unassigned.
// A nil value is not passed to a typed converter whose input cannot hold nil;
// the member is left unassigned instead.
func (r ConverterRule) Eval(value any, rc *ResolutionContext) (any, bool, error) {
	if r.call != nil {
		if r.Input != nil && isNilValue(value) && !nillable(r.Input) {
			return nil, false, nil
		}

		return r.call(value)
	}

	c := r.Inline
	if c == nil {
		var err error
		if c, err = resolveService[ValueConverter](rc, r.Service); err != nil {
			return nil, false, err
		}
	}

	out, err := c.Convert(value, rc)

	return out, err == nil, err
}

// FactoryRule is an inline factory or the type of a service factory.
type FactoryRule struct {
	Inline  DestinationFactory
	Service reflect.Type
}

// Eval creates the destination.
func (r FactoryRule) Eval(src any, rc *ResolutionContext) (any, error) {
	f := r.Inline
	if f == nil {
		var err error
		if f, err = resolveService[DestinationFactory](rc, r.Service); err != nil {
			return nil, err
		}
	}

	return f.Create(src, rc)
}

// serviceImplements reports whether the instance the default resolver builds
// for t satisfies iface.
func serviceImplements(t, iface reflect.Type) bool {
	return t != nil && t.Implements(iface)
}

// As views v as S: directly, or through the embedded S of a derived source.
// Rules declared on a base map receive derived sources once inherited.
func As[S any](v any) (S, bool) {
	if s, ok := v.(S); ok {
		return s, true
	}

	var zero S

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return zero, false
	}

	want := reflect.TypeFor[S]()

	if want.Kind() == reflect.Pointer {
		up, ok := analyze.Upcast(rv, want.Elem())
		if !ok || !up.CanAddr() {
			return zero, false
		}

		return up.Addr().Interface().(S), true
	}

	up, ok := analyze.Upcast(rv, want)
	if !ok {
		return zero, false
	}

	return up.Interface().(S), true
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	return (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil()
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
