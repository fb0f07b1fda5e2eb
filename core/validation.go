// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// NormalizeRequirement canonicalizes free requirement text so that two
// strings that differ only in case or whitespace always consult the same
// history bucket: lower-case, collapse runs of whitespace to a single
// space, trim.
//
// The result is byte-for-byte deterministic for a given input.
func NormalizeRequirement(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ValidateItem validates a CatalogItem according to domain rules.
//
// Validation rules:
//   - SKU must not be empty
//   - Name must not be empty
//   - Vector, if present, must match dimension (when dimension > 0)
//
// NOT validated (populated by processors):
//   - Vector may be empty until the embedding generator runs
//   - Timestamps (set by the storage layer)
func ValidateItem(item *CatalogItem, dimension int) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.SKU == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptySKU)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyName)
	}

	if len(item.Vector) > 0 && dimension > 0 && len(item.Vector) != dimension {
		return fmt.Errorf("%w: %w: have %d, want %d",
			ErrInvalidItem, ErrDimensionMismatch, len(item.Vector), dimension)
	}

	return nil
}

// ValidateRequirementLine checks that a requirement line carries matchable
// text. Returns ErrEmptyRequirement when the text normalizes to nothing.
func ValidateRequirementLine(line *RequirementLine) error {
	if line == nil {
		return fmt.Errorf("%w: line is nil", ErrEmptyRequirement)
	}
	if NormalizeRequirement(line.Text) == "" {
		return fmt.Errorf("%w: line %d", ErrEmptyRequirement, line.Id)
	}
	return nil
}
