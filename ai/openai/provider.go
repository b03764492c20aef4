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


package openai

import (
	"log/slog"

	"github.com/poiesic/recallit/ai"
)

// Provider bundles the embedder and topic segmenter built from one
// configuration.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	segmenter *TopicSegmenter
	logger    *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider normalizes and validates the configuration, then constructs
// both services against it.
//
// Returns the ai.AIProvider interface rather than *Provider so callers
// stay decoupled from the OpenAI-specific types.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// The internal constructors hand back concrete types; the accessors
	// below narrow them to the ai interfaces.
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	segmenter, err := newTopicSegmenter(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		segmenter: segmenter,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// TopicSegmenter returns the transcript segmentation service.
func (p *Provider) TopicSegmenter() ai.TopicSegmenter {
	return p.segmenter
}

// Close releases provider resources. The langchaingo clients hold no
// connections that need explicit teardown, so this only logs.
func (p *Provider) Close() error {
	p.logger.Debug("provider closed")
	return nil
}
