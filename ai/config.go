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


package ai

import (
	"errors"
	"strings"
)

// Config locates the embedding and segmentation services. The two concerns
// are configured independently because they routinely run on different
// models, and sometimes on different hosts.
type Config struct {
	// EmbeddingHost is the base URL of the embedding service, e.g.
	// "http://localhost:11434/v1" for a local OpenAI-compatible server.
	EmbeddingHost string

	// SegmenterHost is the base URL of the topic segmentation service.
	SegmenterHost string

	// EmbeddingModel names the embedding model, e.g. "embeddinggemma" or
	// "text-embedding-3-small".
	EmbeddingModel string

	// SegmenterModel names the segmentation model, e.g. "qwen2.5:3b" or
	// "gpt-4o-mini".
	SegmenterModel string

	// APIKey authenticates against both services. Local gateways accept
	// any value; the default is "none".
	APIKey string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithSegmenterHost sets the segmentation service host URL.
func WithSegmenterHost(host string) ConfigOption {
	return func(c *Config) {
		c.SegmenterHost = host
	}
}

// WithHost points both services at the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.SegmenterHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithSegmenterModel sets the segmentation model identifier.
func WithSegmenterModel(model string) ConfigOption {
	return func(c *Config) {
		c.SegmenterModel = model
	}
}

// WithAPIKey sets the service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// DefaultConfig targets a local Ollama-style gateway serving both concerns:
// embeddinggemma for embeddings, qwen2.5:3b for segmentation.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		SegmenterHost:  defaultHost,
		EmbeddingModel: "embeddinggemma",
		SegmenterModel: "qwen2.5:3b",
		APIKey:         "none",
	}
}

// NewConfig applies options over the defaults.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize brings the configuration into canonical form: hosts get the
// /v1 suffix OpenAI-compatible APIs route on, and an empty APIKey becomes
// "none" so local gateways that ignore auth still see a bearer token.
func (c *Config) Normalize() {
	c.EmbeddingHost = canonicalHost(c.EmbeddingHost)
	c.SegmenterHost = canonicalHost(c.SegmenterHost)
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

// canonicalHost appends /v1 when the host does not already carry it.
func canonicalHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate normalizes the configuration and checks it is complete.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.SegmenterHost == "" {
		return errors.New("ai config: SegmenterHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.SegmenterModel == "" {
		return errors.New("ai config: SegmenterModel is required")
	}
	return nil
}
