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


package mock

import "github.com/poiesic/recallit/ai"

// MockProvider bundles a mock embedder and mock segmenter behind the
// ai.AIProvider interface.
type MockProvider struct {
	embedder  *MockEmbedder
	segmenter *MockTopicSegmenter
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider builds a provider over fresh default mocks.
//
// The interface is returned for symmetry with the production constructor;
// tests reach the concrete doubles through GetMockEmbedder and
// GetMockSegmenter.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		segmenter: NewMockTopicSegmenter(),
	}
}

// NewMockProviderWithServices builds a provider over doubles the test has
// already configured.
func NewMockProviderWithServices(embedder *MockEmbedder, segmenter *MockTopicSegmenter) ai.AIProvider {
	return &MockProvider{
		embedder:  embedder,
		segmenter: segmenter,
	}
}

// Embedder returns the mock embedder as ai.Embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// TopicSegmenter returns the mock segmenter as ai.TopicSegmenter.
func (p *MockProvider) TopicSegmenter() ai.TopicSegmenter {
	return p.segmenter
}

// Close is a no-op; mocks hold nothing to release.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder exposes the concrete embedder for call-count assertions
// and behavior injection.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockSegmenter exposes the concrete segmenter for call-count assertions
// and behavior injection.
func (p *MockProvider) GetMockSegmenter() *MockTopicSegmenter {
	return p.segmenter
}
