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


// Package index provides the in-memory vector similarity index over catalog
// item embeddings.
//
// The index holds an immutable Snapshot of all embedded items. Searches read
// the snapshot through an atomic pointer and never block; Reload builds a
// fresh snapshot off to the side and swaps it in atomically, so queries in
// flight keep the view they started with.
//
// A snapshot can optionally be persisted to a cache file, letting a process
// restart serve queries before its first full reload from storage.
package index
