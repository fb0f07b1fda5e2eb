package storage

import (
	"testing"
	"time"

	"github.com/poiesic/skumatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("hex bolt m8")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalCatalogItem(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		item *core.CatalogItem
	}{
		{
			name: "pending item",
			item: &core.CatalogItem{
				SKU:        "BLT-M8",
				Name:       "Hex bolt M8 stainless",
				Price:      0.45,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "item with vector",
			item: &core.CatalogItem{
				SKU:        "PIP-22",
				Name:       "Copper pipe 22mm",
				Vector:     []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				Price:      12.90,
				Image:      "https://cdn.example.com/pip-22.jpg",
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "item with full-size vector",
			item: &core.CatalogItem{
				SKU:        "VLV-15",
				Name:       "Ball valve 15mm",
				Vector:     make([]float32, 768),
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "unicode name",
			item: &core.CatalogItem{
				SKU:        "ÅNG-1",
				Name:       "Ångström gauge ±0.1µm",
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "zero timestamps",
			item: &core.CatalogItem{
				SKU:  "RAW-1",
				Name: "Unprocessed import row",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCatalogItem(tt.item)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalCatalogItem(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.item.SKU, decoded.SKU)
			assert.Equal(t, tt.item.Name, decoded.Name)
			assert.Equal(t, tt.item.Price, decoded.Price)
			assert.Equal(t, tt.item.Image, decoded.Image)
			assert.True(t, tt.item.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.item.UpdatedAt.Equal(decoded.UpdatedAt))
			// Handle nil vs empty slice
			if len(tt.item.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.item.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalCatalogItem_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{5, 'A', 'B'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalCatalogItem(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalUnmarshalMappingRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.MappingRecord
	}{
		{
			name: "first observation",
			record: &core.MappingRecord{
				Requirement:  "hex bolt m8",
				SKU:          "BLT-M8",
				Frequency:    1,
				LastObserved: now,
			},
		},
		{
			name: "well-worn mapping",
			record: &core.MappingRecord{
				Requirement:  "copper pipe 22mm soft",
				SKU:          "PIP-22",
				Frequency:    148,
				LastObserved: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalMappingRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalMappingRecord(data)
			require.NoError(t, err)

			assert.Equal(t, tt.record.Requirement, decoded.Requirement)
			assert.Equal(t, tt.record.SKU, decoded.SKU)
			assert.Equal(t, tt.record.Frequency, decoded.Frequency)
			assert.True(t, tt.record.LastObserved.Equal(decoded.LastObserved))
		})
	}
}

func TestMarshalUnmarshalQuoteRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	quote := &core.QuoteRecord{
		Id:          core.ID(77),
		SKU:         "PIP-22",
		Requirement: "copper pipe 22mm",
		Customer:    "Acme Plumbing",
		Quantity:    250,
		Price:       11.75,
		QuotedAt:    now,
	}

	data := MarshalQuoteRecord(quote)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalQuoteRecord(data)
	require.NoError(t, err)

	assert.Equal(t, quote.Id, decoded.Id)
	assert.Equal(t, quote.SKU, decoded.SKU)
	assert.Equal(t, quote.Requirement, decoded.Requirement)
	assert.Equal(t, quote.Customer, decoded.Customer)
	assert.Equal(t, quote.Quantity, decoded.Quantity)
	assert.Equal(t, quote.Price, decoded.Price)
	assert.True(t, quote.QuotedAt.Equal(decoded.QuotedAt))
}

func TestRoundTripConsistency(t *testing.T) {
	t.Run("multiple marshal-unmarshal cycles", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		original := &core.CatalogItem{
			SKU:        "BLT-M8",
			Name:       "Hex bolt M8 stainless",
			Vector:     []float32{0.1, 0.2, 0.3},
			Price:      0.45,
			InsertedAt: now,
			UpdatedAt:  now,
		}

		current := original
		for i := 0; i < 3; i++ {
			data := MarshalCatalogItem(current)
			decoded, err := UnmarshalCatalogItem(data)
			require.NoError(t, err)
			current = decoded
		}

		assert.Equal(t, original.SKU, current.SKU)
		assert.Equal(t, original.Name, current.Name)
		assert.Equal(t, original.Vector, current.Vector)
		assert.Equal(t, original.Price, current.Price)
	})
}
