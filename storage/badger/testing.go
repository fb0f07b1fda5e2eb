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


package badger

import "github.com/poiesic/skumatch/storage"

// MemoryRepositories bundles in-memory repositories for testing.
// Close releases all of them along with the shared backend.
type MemoryRepositories struct {
	Items    storage.ItemRepository
	Mappings storage.MappingHistoryRepository
	Quotes   storage.QuoteRepository
	Backend  *Backend
}

// Close closes all repositories and the backend.
func (m *MemoryRepositories) Close() error {
	m.Items.Close()
	m.Mappings.Close()
	m.Quotes.Close()
	return m.Backend.Close()
}

// NewMemoryRepositories creates in-memory item, mapping, and quote
// repositories for testing. Caller must Close when done.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	items, err := NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	mappings, err := NewMappingHistoryRepository(backend)
	if err != nil {
		items.Close()
		backend.Close()
		return nil, err
	}

	quotes, err := NewQuoteRepository(backend)
	if err != nil {
		mappings.Close()
		items.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Items:    items,
		Mappings: mappings,
		Quotes:   quotes,
		Backend:  backend,
	}, nil
}
