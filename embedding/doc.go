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


// Package embedding generates catalog item embeddings in bulk.
//
// The Generator scans the catalog for items without an embedding, partitions
// them into batches, and processes the batches on a bounded worker pool.
// Provider calls are retried with exponential backoff; a batch whose provider
// call ultimately fails is reported and skipped without aborting the run, so
// one bad batch never blocks the rest of the catalog.
//
// Typical usage:
//
//	gen, err := embedding.NewGenerator(items, embedder,
//	    embedding.WithWorkers(5),
//	    embedding.WithProgress(os.Stderr),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Release()
//
//	report, err := gen.Run(ctx)
package embedding
