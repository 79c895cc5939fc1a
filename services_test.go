package caster_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"caster"
	"caster/internal/mapping/mocks"
)

func serviceConfig(opts ...caster.Option) *caster.Configuration {
	cfg := caster.NewConfiguration(opts...)
	caster.CreateMap[Customer, CustomerDTO](cfg).
		ForMember("Name", caster.ConvertUsingOf[upper]()).
		ForMember("Notes", caster.ConditionOf[nonEmpty]())

	return cfg
}

func TestServices_ResolvedPerCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockServiceResolver(ctrl)

	r.EXPECT().Resolve(reflect.TypeFor[upper]()).Return(upper{}, nil).Times(2)
	r.EXPECT().Resolve(reflect.TypeFor[nonEmpty]()).Return(nil, caster.ErrNoService).Times(2)

	m := seal(t, serviceConfig(caster.WithServiceResolver(r)))

	got, err := caster.Map[CustomerDTO](m, Customer{Name: "ada", Notes: "n"})
	require.NoError(t, err)
	assert.Equal(t, CustomerDTO{Name: "ADA", Notes: "n"}, got)

	got, err = caster.Map[CustomerDTO](m, Customer{Name: "bo"})
	require.NoError(t, err)
	assert.Equal(t, CustomerDTO{Name: "BO"}, got)
}

func TestServices_DefaultResolver(t *testing.T) {
	m := seal(t, serviceConfig())

	got, err := caster.Map[CustomerDTO](m, Customer{Name: "ada", Notes: "n"})
	require.NoError(t, err)
	assert.Equal(t, CustomerDTO{Name: "ADA", Notes: "n"}, got)
}

func TestServices_CallResolverComesFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	configured := mocks.NewMockServiceResolver(ctrl)
	configured.EXPECT().Resolve(reflect.TypeFor[nonEmpty]()).Return(nonEmpty{}, nil)

	m := seal(t, serviceConfig(caster.WithServiceResolver(configured)))

	perCall := caster.ResolverFunc(func(t reflect.Type) (any, error) {
		if t != reflect.TypeFor[upper]() {
			return nil, caster.ErrNoService
		}

		return caster.ValueConverterFunc(func(any, *caster.ResolutionContext) (any, error) {
			return "per call", nil
		}), nil
	})

	got, err := caster.Map[CustomerDTO](m, Customer{Name: "ada", Notes: "n"}, caster.WithServices(perCall))
	require.NoError(t, err)
	assert.Equal(t, CustomerDTO{Name: "per call", Notes: "n"}, got)
}

func TestServices_ResolverFailure(t *testing.T) {
	down := errors.New("container down")

	ctrl := gomock.NewController(t)
	r := mocks.NewMockServiceResolver(ctrl)
	r.EXPECT().Resolve(gomock.Any()).Return(nil, down)

	m := seal(t, serviceConfig(caster.WithServiceResolver(r)))

	_, err := caster.Map[CustomerDTO](m, Customer{Name: "ada"})
	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.ErrorIs(t, err, caster.ErrMapping)
}

func TestServices_WrongServiceType(t *testing.T) {
	cfg := caster.NewConfiguration()
	caster.CreateMap[Customer, CustomerDTO](cfg).ForMember("Name", caster.ConvertUsingOf[upper]())

	m := seal(t, cfg)

	wrong := caster.ResolverFunc(func(reflect.Type) (any, error) { return "not a converter", nil })

	_, err := caster.Map[CustomerDTO](m, Customer{Name: "ada"}, caster.WithServices(wrong))
	assert.ErrorIs(t, err, caster.ErrMapping)
}
