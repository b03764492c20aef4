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


// Package ai defines the model-facing seams of recallit: text embedding and
// transcript topic segmentation.
//
// Everything above this package depends on the interfaces here, never on a
// concrete model client. The ingestion pipeline embeds chunk contents through
// Embedder and asks TopicSegmenter where topics shift in a meeting; which
// model answers is a wiring decision made once, at construction.
//
// # Interfaces
//
//   - Embedder: text to fixed-width vectors, single or batched
//   - TopicSegmenter: utterance sequence plus optional hints to topic spans
//   - AIProvider: bundles both behind one handle with a shared lifecycle
//
// # Implementations
//
//   - ai/openai: OpenAI-compatible HTTP APIs (works against Ollama and
//     similar local gateways as well as hosted endpoints)
//   - ai/mock: deterministic in-memory doubles for tests
//
// The deterministic segmenter used by dry runs is not here: its boundary
// rules belong to the chunking contract, so it lives in the chunking package
// as chunking.HeuristicSegmenter.
//
// # Constructors
//
// Production constructors return interfaces:
//
//	provider, err := openai.NewProvider(config)  // ai.AIProvider
//
// which keeps callers decoupled from the HTTP client underneath. Mock
// constructors return concrete types instead, because tests need the
// injection fields and counters:
//
//	embedder := mock.NewMockEmbedder()   // *mock.MockEmbedder
//	embedder.EmbedTextFunc = ...
//	embedder.CallCount()
//
// mock.NewMockProvider returns ai.AIProvider like the production entry
// point; GetMockEmbedder and GetMockSegmenter recover the concrete doubles
// when a test needs to reach inside.
//
// # Configuration
//
// Config carries separate host/model pairs for embedding and segmentation,
// since deployments routinely pin a small local model for embeddings and a
// larger one for segmentation. WithHost sets both at once for the common
// single-endpoint case.
package ai
