package mapping

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"caster/internal/mapping/mocks"
)

type adultsOnly struct{}

func (adultsOnly) Check(_, _, srcMember, _ any, _ *ResolutionContext) bool {
	age, _ := srcMember.(int)
	return age >= 18
}

type prefixer struct{ prefix string }

func (p *prefixer) Convert(value any, _ *ResolutionContext) (any, error) {
	return p.prefix + value.(string), nil
}

func TestAs(t *testing.T) {
	d := Dog{Animal: Animal{Name: "rex"}, Breed: "collie"}

	a, ok := As[Animal](d)
	require.True(t, ok)
	assert.Equal(t, "rex", a.Name)

	p, ok := As[*Animal](&d)
	require.True(t, ok)
	p.Name = "max"
	assert.Equal(t, "max", d.Name)

	_, ok = As[*Animal](d)
	assert.False(t, ok, "a copy has no addressable base")

	_, ok = As[Dog](Animal{})
	assert.False(t, ok)

	_, ok = As[Animal](nil)
	assert.False(t, ok)
}

func TestConditionRule_Service(t *testing.T) {
	rc := NewResolutionContext(nil, nil)
	rule := ConditionRule{Service: reflect.TypeFor[adultsOnly]()}

	ok, err := rule.Eval(nil, nil, 25, 0, rc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rule.Eval(nil, nil, 10, 0, rc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConditionRule_WrongServiceType(t *testing.T) {
	rc := NewResolutionContext(nil, nil)
	rule := ConditionRule{Service: reflect.TypeFor[int]()}

	_, err := rule.Eval(nil, nil, 1, 0, rc)
	assert.ErrorIs(t, err, ErrServiceType)
}

func TestConverterRule_ResolvedThroughMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockServiceResolver(ctrl)

	svcType := reflect.TypeFor[*prefixer]()
	resolver.EXPECT().Resolve(svcType).Return(&prefixer{prefix: "#"}, nil).Times(1)

	rc := NewResolutionContext(resolver, nil)
	out, ok, err := ConverterRule{Service: svcType}.Eval("42", rc)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#42", out)
}

func TestResolutionContext_FallsBackToDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockServiceResolver(ctrl)

	svcType := reflect.TypeFor[adultsOnly]()
	resolver.EXPECT().Resolve(svcType).Return(nil, ErrNoService)

	rc := NewResolutionContext(resolver, nil)
	v, err := rc.Service(svcType)
	require.NoError(t, err)
	assert.IsType(t, adultsOnly{}, v)
}

func TestResolutionContext_ResolverErrorStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockServiceResolver(ctrl)

	boom := errors.New("container closed")
	resolver.EXPECT().Resolve(gomock.Any()).Return(nil, boom)

	rc := NewResolutionContext(resolver, nil)
	_, err := rc.Service(reflect.TypeFor[adultsOnly]())
	assert.ErrorIs(t, err, boom)
}

func TestDefaultServiceResolver(t *testing.T) {
	v, err := DefaultServiceResolver{}.Resolve(reflect.TypeFor[*prefixer]())
	require.NoError(t, err)
	assert.Equal(t, &prefixer{}, v)

	_, err = DefaultServiceResolver{}.Resolve(reflect.TypeFor[Condition]())
	assert.ErrorIs(t, err, ErrNoService)
}

func TestResolutionContext_Instances(t *testing.T) {
	rc := NewResolutionContext(nil, map[string]any{"tenant": "acme"})

	tenant, ok := rc.Item("tenant")
	require.True(t, ok)
	assert.Equal(t, "acme", tenant)

	src := &Animal{Name: "rex"}
	dst := reflect.ValueOf(&AnimalView{Name: "rex"})
	dstType := reflect.TypeFor[*AnimalView]()

	_, ok = rc.Instance(reflect.ValueOf(src), dstType)
	assert.False(t, ok)

	rc.Remember(reflect.ValueOf(src), dst)

	got, ok := rc.Instance(reflect.ValueOf(src), dstType)
	require.True(t, ok)
	assert.Equal(t, dst.Pointer(), got.Pointer())

	_, ok = rc.Instance(reflect.ValueOf(&Animal{Name: "rex"}), dstType)
	assert.False(t, ok, "identity is per pointer, not per value")

	leave := rc.Enter()
	assert.Equal(t, 1, rc.Depth())
	leave()
	assert.Equal(t, 0, rc.Depth())
}

func TestNewConstructor_Invalid(t *testing.T) {
	_, err := NewConstructor(func(a, b string) person { return person{} }, "A")
	assert.ErrorIs(t, err, ErrInvalidFunc)

	_, err = NewConstructor(func(a string) (person, bool) { return person{}, true }, "A")
	assert.ErrorIs(t, err, ErrInvalidFunc)

	_, err = NewConstructor("not a func")
	assert.ErrorIs(t, err, ErrInvalidFunc)
}
