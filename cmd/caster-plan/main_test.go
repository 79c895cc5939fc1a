package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster"
	"caster/store"
)

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, &options{Pair: "order", Format: formatPlan}, opts)

	opts, err = parseArgs([]string{"-p", "product", "--format", "projection", "-s", "--debug"})
	require.NoError(t, err)
	assert.Equal(t, &options{Pair: "product", Format: formatProjection, Sample: true, Debug: true}, opts)

	_, err = parseArgs([]string{"--pair", "invoice"})
	require.ErrorIs(t, err, errUsage)

	_, err = parseArgs([]string{"--format", "json"})
	require.ErrorIs(t, err, errUsage)
}

func TestOrderStatus(t *testing.T) {
	tests := map[string]store.OrderStatus{
		"paid":      store.StatusPaid,
		"Shipped":   store.StatusShipped,
		"CANCELLED": store.StatusCancelled,
		"lost":      store.StatusUnknown,
		"":          store.StatusUnknown,
	}

	for in, want := range tests {
		if got := orderStatus(in); got != want {
			t.Errorf("orderStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfiguration_MapsSampleOrder(t *testing.T) {
	m, err := newConfiguration().Seal()
	require.NoError(t, err)

	got, err := caster.Map[store.Order](m, sampleOrder())
	require.NoError(t, err)

	want := store.Order{
		ID:         1042,
		Number:     "SO-1042",
		Status:     store.StatusPaid,
		TotalCents: 6700,
		Currency:   "EUR",
		Customer: &store.Customer{
			ID:       3,
			Email:    "ada@example.com",
			FullName: "Ada Lovelace",
			City:     "Paris",
		},
		ShippingCity: "Paris",
		Items: []store.OrderItem{
			{SKU: "KB-101", Name: "Keyboard", Quantity: 1, UnitPrice: 4900, Total: 4900},
			{SKU: "CB-2M", Name: "USB-C cable", Quantity: 2, UnitPrice: 900, Total: 1800},
		},
		OrderedAt: time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, want, got)
}

func TestConfiguration_UnplacedOrder(t *testing.T) {
	m, err := newConfiguration().Seal()
	require.NoError(t, err)

	o := sampleOrder()
	o.PlacedAt = nil
	o.Customer = nil

	got, err := caster.Map[store.Order](m, o)
	require.NoError(t, err)
	assert.True(t, got.OrderedAt.IsZero())
	assert.Nil(t, got.Customer)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "plan", args: []string{"--pair", "customer"}},
		{name: "yaml", args: []string{"--format", "yaml"}, want: []string{"warehouse.Order", "ShippingCity", "Shipping.City"}},
		{name: "projection", args: []string{"-p", "product", "-f", "projection"}},
		{name: "sample", args: []string{"--sample"}, want: []string{"SO-1042", "Ada Lovelace", "PAID"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			require.NoError(t, run(tt.args, &stdout, &stderr))
			assert.NotEmpty(t, stdout.String())

			for _, s := range tt.want {
				assert.Contains(t, stdout.String(), s)
			}
		})
	}
}

func TestRun_OrderHasNoProjection(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run([]string{"--format", "projection"}, &stdout, &stderr)
	assert.ErrorIs(t, err, caster.ErrUnsupportedProjection)
}

func TestRun_DebugLogsCompilation(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"--debug", "--pair", "product"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "plan compiled")
}
