package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"caster/internal/mapping"
)

func TestExportYAML(t *testing.T) {
	order := mapping.NewTypeMap(pairOf[Order, OrderDTO]())
	require.NoError(t, order.Ignore("Notes"))

	e := sealed(t, nil, order,
		mapping.NewTypeMap(pairOf[Customer, CustomerDTO]()),
		mapping.NewTypeMap(pairOf[Line, LineDTO]()),
	)

	data, err := e.ExportYAML()
	require.NoError(t, err)

	var f ExportFile
	require.NoError(t, yaml.Unmarshal(data, &f))

	require.Len(t, f.TypeMaps, 3)

	m := f.TypeMaps[0]
	assert.Equal(t, "plan.Order", m.Source)
	assert.Equal(t, "plan.OrderDTO", m.Destination)
	assert.Equal(t, StrategyTypeMap, m.Strategy)
	assert.Equal(t, "zero", m.Construct)
	assert.Equal(t, []string{"Notes"}, m.Skipped)

	strategies := map[string]string{}
	for _, member := range m.Members {
		assert.True(t, member.Convention, member.Name)
		assert.Equal(t, member.Name, member.From)
		strategies[member.Name] = member.Strategy
	}

	assert.Equal(t, map[string]string{
		"ID":       StrategyAssignable,
		"Customer": StrategyNullable,
		"Lines":    StrategyCollection,
	}, strategies)

	line := f.TypeMaps[2]
	require.Len(t, line.Members, 2)
	assert.Equal(t, StrategyNumeric, line.Members[1].Strategy)
}
