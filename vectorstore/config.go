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


package vectorstore

import "os"

const (
	// EnvAPIKey is the environment fallback for Config.APIKey.
	EnvAPIKey = "PINECONE_API_KEY"

	// EnvIndexName is the environment fallback for Config.IndexName.
	EnvIndexName = "PINECONE_INDEX"

	// DefaultDimension matches the width of the embedding models the
	// pipeline ships with.
	DefaultDimension = 1536

	// DefaultMetric is the similarity metric used when creating an index.
	DefaultMetric = "cosine"

	// DefaultCloud and DefaultRegion pick the serverless home used when
	// creating an index.
	DefaultCloud  = "aws"
	DefaultRegion = "us-east-1"
)

// Config holds connection settings for the external vector index.
type Config struct {
	// APIKey authenticates every control-plane and data-plane call.
	// Falls back to the PINECONE_API_KEY environment variable.
	APIKey string

	// IndexName is the index all operations target.
	// Falls back to the PINECONE_INDEX environment variable.
	IndexName string

	// Dimension is the vector width used when creating the index.
	Dimension int

	// Metric is the similarity metric used when creating the index.
	Metric string

	// Cloud and Region locate the serverless index when creating it.
	Cloud  string
	Region string

	// ControllerHost overrides the control-plane endpoint.
	// Defaults to the public API. Mainly useful in tests.
	ControllerHost string

	// IndexHost pins the data-plane endpoint, skipping host discovery.
	// Mainly useful for local gateways and tests.
	IndexHost string
}

// ConfigOption is a function that modifies a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the index credential explicitly.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithIndexName sets the target index explicitly.
func WithIndexName(name string) ConfigOption {
	return func(c *Config) {
		c.IndexName = name
	}
}

// WithDimension sets the vector width used at index creation.
func WithDimension(dimension int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dimension
	}
}

// WithMetric sets the similarity metric used at index creation.
func WithMetric(metric string) ConfigOption {
	return func(c *Config) {
		c.Metric = metric
	}
}

// WithServerless sets the cloud provider and region used at index creation.
func WithServerless(cloud, region string) ConfigOption {
	return func(c *Config) {
		c.Cloud = cloud
		c.Region = region
	}
}

// WithControllerHost overrides the control-plane endpoint.
func WithControllerHost(host string) ConfigOption {
	return func(c *Config) {
		c.ControllerHost = host
	}
}

// WithIndexHost pins the data-plane endpoint.
func WithIndexHost(host string) ConfigOption {
	return func(c *Config) {
		c.IndexHost = host
	}
}

// DefaultConfig returns a configuration with standard defaults. The
// credential and index name are left empty so Normalize can resolve them
// from the environment.
func DefaultConfig() *Config {
	return &Config{
		Dimension: DefaultDimension,
		Metric:    DefaultMetric,
		Cloud:     DefaultCloud,
		Region:    DefaultRegion,
	}
}

// NewConfig creates a configuration with the given options applied over the
// defaults.
func NewConfig(opts ...ConfigOption) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Normalize fills unset fields from the environment and defaults.
func (c *Config) Normalize() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.IndexName == "" {
		c.IndexName = os.Getenv(EnvIndexName)
	}
	if c.Dimension == 0 {
		c.Dimension = DefaultDimension
	}
	if c.Metric == "" {
		c.Metric = DefaultMetric
	}
	if c.Cloud == "" {
		c.Cloud = DefaultCloud
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate normalizes the configuration and checks that every required
// field is present. A missing credential or index name is fatal here, not
// at first use.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.IndexName == "" {
		return ErrMissingIndexName
	}
	if c.Dimension <= 0 {
		return ErrInvalidDimension
	}
	return nil
}
