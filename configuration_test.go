package caster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster"
)

func TestSeal_ReportsEveryProblem(t *testing.T) {
	cfg := caster.NewConfiguration()
	caster.CreateMap[Customer, CustomerDTO](cfg).
		ForMember("Missing", caster.MapFrom("Name")).
		ForMember("Notes", caster.MapFrom("Nope"))
	caster.CreateMap[Order, OrderDTO](cfg)
	caster.CreateMap[Animal, DogView](cfg)

	m, err := cfg.Seal()
	require.Error(t, err)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, caster.ErrConfiguration)

	var ce *caster.ConfigurationError
	require.ErrorAs(t, err, &ce)

	diags := ce.Diagnostics

	unknown := diags.WithCode(caster.CodeUnknownMember)
	require.Len(t, unknown, 1)
	assert.Equal(t, "Missing", unknown[0].Member)

	path := diags.WithCode(caster.CodeInvalidSourcePath)
	require.Len(t, path, 1)
	assert.Equal(t, "Notes", path[0].Member)

	unresolved := diags.WithCode(caster.CodeUnresolvablePair)
	require.NotEmpty(t, unresolved)
	assert.Equal(t, "Items", unresolved[0].Member)

	var unmapped []string
	for _, d := range diags.WithCode(caster.CodeUnmappedMember) {
		unmapped = append(unmapped, d.Member)
	}

	assert.ElementsMatch(t, []string{"Breed", "Label"}, unmapped)
}

func TestSeal_InvalidRules(t *testing.T) {
	cfg := caster.NewConfiguration()
	caster.CreateMap[Customer, CustomerDTO](cfg).
		ForMember("Name", caster.ConvertUsing(func(a, b string) string { return a + b })).
		ForMember("Notes", caster.ConvertWith(nil)).
		ForMember("Nickname", caster.NullSubstitute(42))

	_, err := cfg.Seal()
	require.Error(t, err)

	var ce *caster.ConfigurationError
	require.ErrorAs(t, err, &ce)

	members := map[string]bool{}
	for _, d := range ce.Diagnostics.WithCode(caster.CodeInvalidRule) {
		members[d.Member] = true
	}

	assert.Equal(t, map[string]bool{"Name": true, "Notes": true, "Nickname": true}, members)
}

func TestSeal_Once(t *testing.T) {
	cfg := orderConfig()

	_, err := cfg.Seal()
	require.NoError(t, err)

	_, err = cfg.Seal()
	assert.ErrorIs(t, err, caster.ErrSealed)
}

func TestSeal_ExactNameMatching(t *testing.T) {
	type source struct {
		UserName string
	}

	type target struct {
		Username string
	}

	cfg := caster.NewConfiguration()
	caster.CreateMap[source, target](cfg)

	m := seal(t, cfg)

	got, err := caster.Map[target](m, source{UserName: "ada"})
	require.NoError(t, err)
	assert.Equal(t, target{Username: "ada"}, got)

	cfg = caster.NewConfiguration(caster.WithNameMatching(caster.MatchExact))
	caster.CreateMap[source, target](cfg)

	_, err = cfg.Seal()
	assert.ErrorIs(t, err, caster.ErrConfiguration)
}

func TestSeal_OpenMapNeedsGenericSource(t *testing.T) {
	cfg := caster.NewConfiguration()
	caster.CreateOpenMap[Customer, CustomerDTO](cfg)

	_, err := cfg.Seal()
	require.Error(t, err)

	var ce *caster.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Len(t, ce.Diagnostics.WithCode(caster.CodeOpenGeneric), 1)
}

func TestCreateMap_ReplacesEarlierMap(t *testing.T) {
	cfg := caster.NewConfiguration()
	caster.CreateMap[Customer, CustomerDTO](cfg).Ignore("Name")
	caster.CreateMap[*Customer, *CustomerDTO](cfg)

	m := seal(t, cfg)

	got, err := caster.Map[CustomerDTO](m, Customer{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

func TestExportYAML(t *testing.T) {
	cfg := orderConfig()
	caster.CreateMap[Customer, CustomerDTO](cfg).Ignore("Notes")

	m := seal(t, cfg)

	out, err := m.ExportYAML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "caster_test.Order")
	assert.Contains(t, text, "AddressCity")
	assert.Contains(t, text, "Address.City")
	assert.Contains(t, text, "Notes")
}
