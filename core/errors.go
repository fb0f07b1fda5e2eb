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

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates a CatalogItem failed validation.
	ErrInvalidItem = errors.New("invalid catalog item")

	// ErrEmptySKU indicates the SKU field is empty.
	ErrEmptySKU = errors.New("sku cannot be empty")

	// ErrEmptyName indicates the item Name field is empty.
	ErrEmptyName = errors.New("item name cannot be empty")

	// ErrEmptyRequirement indicates requirement text normalized to the empty string.
	ErrEmptyRequirement = errors.New("requirement text is empty after normalization")

	// ErrDimensionMismatch indicates an embedding vector has the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
