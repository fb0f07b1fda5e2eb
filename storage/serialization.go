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


package storage

import (
	"github.com/poiesic/skumatch/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalCatalogItem serializes a CatalogItem to bytes.
func MarshalCatalogItem(item *core.CatalogItem) []byte {
	buf := make([]byte, core.CatalogItemMUS.Size(*item))
	core.CatalogItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalCatalogItem deserializes a CatalogItem from bytes.
func UnmarshalCatalogItem(data []byte) (*core.CatalogItem, error) {
	item, _, err := core.CatalogItemMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// MarshalMappingRecord serializes a MappingRecord to bytes.
func MarshalMappingRecord(record *core.MappingRecord) []byte {
	buf := make([]byte, core.MappingRecordMUS.Size(*record))
	core.MappingRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalMappingRecord deserializes a MappingRecord from bytes.
func UnmarshalMappingRecord(data []byte) (*core.MappingRecord, error) {
	record, _, err := core.MappingRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalQuoteRecord serializes a QuoteRecord to bytes.
func MarshalQuoteRecord(quote *core.QuoteRecord) []byte {
	buf := make([]byte, core.QuoteRecordMUS.Size(*quote))
	core.QuoteRecordMUS.Marshal(*quote, buf)
	return buf
}

// UnmarshalQuoteRecord deserializes a QuoteRecord from bytes.
func UnmarshalQuoteRecord(data []byte) (*core.QuoteRecord, error) {
	quote, _, err := core.QuoteRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
