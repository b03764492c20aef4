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


// Package vectorstore provides the vector index client layer for recallit.
//
// This package defines the Index interface that decouples index access from
// business logic, and a Store that layers recallit's conventions on top of
// any Index implementation: batched writes, namespace defaulting, metadata
// flattening, and client-side score filtering.
//
// # Constructor Return Type Pattern
//
// Index implementations follow a strict "return interface" pattern for
// their public constructors:
//
//	index, err := pinecone.NewClient(cfg)  // returns vectorstore.Index
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to one index product
//   - Swappability: Easy to add alternative backends
//   - Testing: Consumers can use mock implementations without modification
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Architecture
//
//   - Index: data-plane and lifecycle operations of the external index
//   - Store: batching, defaulting, and filtering conventions over an Index
//   - pinecone: REST implementation of Index
//   - mock: in-memory implementation of Index for tests
//
// # Write Semantics
//
// WriteDocuments splits records into sequential batches. Records without an
// embedding never reach the index. A batch that ends up empty is skipped
// and noted in the result's Errors rather than failing the write; only an
// index rejection aborts it. Writes within a namespace replace vectors that
// share an ID, which is what makes document re-synchronization idempotent.
//
// # Namespaces
//
// Every operation is scoped to a namespace. Callers that pass an empty
// namespace get DefaultNamespace. Workspace isolation is built entirely on
// this scoping, so cross-namespace reads simply do not exist.
//
// # Thread Safety
//
// Store holds no mutable state. Index implementations must be safe for
// concurrent use from multiple goroutines.
package vectorstore
