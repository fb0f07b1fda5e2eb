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


// Package learn feeds finalized requirement-to-SKU selections back into the
// mapping history, which is what makes future suggestions improve.
//
// Recording is at-least-once: a retried submission increments the counter
// again. Frequencies are ratios of each other in scoring, so occasional
// double counting shifts rankings far less than losing selections would.
package learn
