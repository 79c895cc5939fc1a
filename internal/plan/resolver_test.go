package plan

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster/internal/diagnostic"
	"caster/internal/mapping"
)

func TestResolve_StrategyChain(t *testing.T) {
	e := sealed(t, nil, append(orderMaps(), mapping.NewTypeMap(pairOf[Animal, AnimalView]()))...)

	tests := []struct {
		name string
		pair mapping.TypePair
		want string
	}{
		{"registered map", pairOf[Order, OrderDTO](), StrategyTypeMap},
		{"identical types", pairOf[string, string](), StrategyAssignable},
		{"assignable to interface", pairOf[Circle, Shape](), StrategyAssignable},
		{"enum to underlying", pairOf[Color, int](), StrategyEnum},
		{"underlying to enum", pairOf[int, Color](), StrategyEnum},
		{"safe widening", pairOf[int32, int64](), StrategyNumeric},
		{"slice", pairOf[[]Line, []LineDTO](), StrategyCollection},
		{"array to slice", pairOf[[3]int32, []int64](), StrategyCollection},
		{"dictionary", pairOf[map[string]int32, map[string]int64](), StrategyDictionary},
		{"pointer pair", pairOf[*Customer, *CustomerDTO](), StrategyNullable},
		{"pointer to value", pairOf[*Customer, CustomerDTO](), StrategyNullable},
		{"interface source", pairOf[Shape, ShapeView](), StrategyPolymorphic},
		{"embedded base", pairOf[Dog, AnimalView](), StrategyPolymorphic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := e.Resolve(tt.pair)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name)
		})
	}
}

func TestResolve_Unresolvable(t *testing.T) {
	e := sealed(t, nil)

	for _, pair := range []mapping.TypePair{
		pairOf[chan int, string](),
		pairOf[int64, int32](),
		pairOf[Customer, LineDTO](),
		{},
	} {
		_, err := e.Resolve(pair)
		require.Error(t, err, pair.String())
		assert.ErrorIs(t, err, mapping.ErrResolution)

		var re *mapping.ResolutionError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, pair, re.Pair)
	}
}

func TestStrategies_SortedByPriority(t *testing.T) {
	for i := 1; i < len(Strategies); i++ {
		if Strategies[i-1].Priority >= Strategies[i].Priority {
			t.Errorf("strategy %s (priority %d) listed before %s (priority %d)",
				Strategies[i-1].Name, Strategies[i-1].Priority, Strategies[i].Name, Strategies[i].Priority)
		}
	}

	assert.Equal(t, StrategyTypeMap, Strategies[0].Name)
	assert.Equal(t, StrategyGeneric, Strategies[len(Strategies)-1].Name)
}

func TestValidate_ReportsUnresolvableMember(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Register(mapping.NewTypeMap(pairOf[Feed, FeedDTO]())))

	e := NewEngine(s, zerolog.Nop(), nil)

	err := s.Seal(e.Validate)
	require.Error(t, err)

	var cfgErr *mapping.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	found := cfgErr.Diagnostics.WithCode(diagnostic.CodeUnresolvablePair)
	require.Len(t, found, 1)
	assert.Equal(t, "Updates", found[0].Member)
}

func TestValidate_ReportsAmbiguousDerivedMaps(t *testing.T) {
	base := mapping.NewTypeMap(pairOf[Shape, ShapeView]())
	require.NoError(t, base.Include(pairOf[Circle, CircleView]()))
	require.NoError(t, base.Include(pairOf[Circle, RoundView]()))

	s := newStore()
	for _, tm := range []*mapping.TypeMap{
		base,
		mapping.NewTypeMap(pairOf[Circle, CircleView]()),
		mapping.NewTypeMap(pairOf[Circle, RoundView]()),
	} {
		require.NoError(t, s.Register(tm))
	}

	e := NewEngine(s, zerolog.Nop(), nil)

	err := s.Seal(e.Validate)
	require.Error(t, err)

	var cfgErr *mapping.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Diagnostics.WithCode(diagnostic.CodeAmbiguousDerived), 1)
}

func TestValidate_AcceptsNestedMaps(t *testing.T) {
	e := sealed(t, nil, orderMaps()...)

	assert.Equal(t, 0, e.Plans(), "validation compiles nothing")
}
