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


// Package match turns free-text requirement lines into ranked catalog
// suggestions.
//
// The Matcher type implements a hybrid scoring algorithm that combines:
//   - Mapping history: how often a requirement was finalized against a SKU
//   - Vector similarity between the requirement text and catalog item names
//
// Candidates are the union of both signals, scored with a weighted sum,
// ranked deterministically, and enriched with item details and recent quotes.
package match
