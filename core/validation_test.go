package core

import (
	"errors"
	"testing"
)

func TestNormalizeRequirement(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "already normalized",
			text: "hex bolt m8",
			want: "hex bolt m8",
		},
		{
			name: "mixed case",
			text: "Hex Bolt M8",
			want: "hex bolt m8",
		},
		{
			name: "surrounding whitespace",
			text: "  hex bolt m8  ",
			want: "hex bolt m8",
		},
		{
			name: "internal whitespace runs",
			text: "hex\t bolt \n m8",
			want: "hex bolt m8",
		},
		{
			name: "empty string",
			text: "",
			want: "",
		},
		{
			name: "whitespace only",
			text: " \t\n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRequirement(tt.text); got != tt.want {
				t.Errorf("NormalizeRequirement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeRequirement_Idempotent(t *testing.T) {
	once := NormalizeRequirement("  Stainless  STEEL\tpipe ")
	twice := NormalizeRequirement(once)

	if once != twice {
		t.Errorf("NormalizeRequirement() not idempotent: %q vs %q", once, twice)
	}
}

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name      string
		item      *CatalogItem
		dimension int
		wantErr   error
	}{
		{
			name:      "valid item without vector",
			item:      &CatalogItem{SKU: "A-1", Name: "widget"},
			dimension: 4,
			wantErr:   nil,
		},
		{
			name:      "valid item with matching vector",
			item:      &CatalogItem{SKU: "A-1", Name: "widget", Vector: []float32{1, 0, 0, 0}},
			dimension: 4,
			wantErr:   nil,
		},
		{
			name:      "vector not checked when dimension unset",
			item:      &CatalogItem{SKU: "A-1", Name: "widget", Vector: []float32{1, 0}},
			dimension: 0,
			wantErr:   nil,
		},
		{
			name:      "nil item",
			item:      nil,
			dimension: 4,
			wantErr:   ErrInvalidItem,
		},
		{
			name:      "empty sku",
			item:      &CatalogItem{Name: "widget"},
			dimension: 4,
			wantErr:   ErrEmptySKU,
		},
		{
			name:      "empty name",
			item:      &CatalogItem{SKU: "A-1"},
			dimension: 4,
			wantErr:   ErrEmptyName,
		},
		{
			name:      "wrong dimension",
			item:      &CatalogItem{SKU: "A-1", Name: "widget", Vector: []float32{1, 0}},
			dimension: 4,
			wantErr:   ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItem(tt.item, tt.dimension)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateItem() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateItem() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequirementLine(t *testing.T) {
	tests := []struct {
		name    string
		line    *RequirementLine
		wantErr error
	}{
		{
			name:    "valid line",
			line:    &RequirementLine{Id: 1, Text: "copper pipe 22mm", Quantity: 10},
			wantErr: nil,
		},
		{
			name:    "nil line",
			line:    nil,
			wantErr: ErrEmptyRequirement,
		},
		{
			name:    "empty text",
			line:    &RequirementLine{Id: 2, Text: ""},
			wantErr: ErrEmptyRequirement,
		},
		{
			name:    "whitespace only text",
			line:    &RequirementLine{Id: 3, Text: "   \t "},
			wantErr: ErrEmptyRequirement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequirementLine(tt.line)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRequirementLine() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRequirementLine() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
