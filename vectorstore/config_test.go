package vectorstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/vectorstore"
)

func TestConfig_Defaults(t *testing.T) {
	config := vectorstore.DefaultConfig()

	assert.Empty(t, config.APIKey)
	assert.Empty(t, config.IndexName)
	assert.Equal(t, vectorstore.DefaultDimension, config.Dimension)
	assert.Equal(t, vectorstore.DefaultMetric, config.Metric)
	assert.Equal(t, vectorstore.DefaultCloud, config.Cloud)
	assert.Equal(t, vectorstore.DefaultRegion, config.Region)
}

func TestConfig_Options(t *testing.T) {
	config := vectorstore.NewConfig(
		vectorstore.WithAPIKey("pc-secret"),
		vectorstore.WithIndexName("recall-prod"),
		vectorstore.WithDimension(768),
		vectorstore.WithMetric("dotproduct"),
		vectorstore.WithServerless("gcp", "us-central1"),
		vectorstore.WithControllerHost("http://127.0.0.1:9090"),
		vectorstore.WithIndexHost("http://127.0.0.1:9091"),
	)

	assert.Equal(t, "pc-secret", config.APIKey)
	assert.Equal(t, "recall-prod", config.IndexName)
	assert.Equal(t, 768, config.Dimension)
	assert.Equal(t, "dotproduct", config.Metric)
	assert.Equal(t, "gcp", config.Cloud)
	assert.Equal(t, "us-central1", config.Region)
	assert.Equal(t, "http://127.0.0.1:9090", config.ControllerHost)
	assert.Equal(t, "http://127.0.0.1:9091", config.IndexHost)
}

func TestConfig_EnvironmentFallback(t *testing.T) {
	t.Run("environment fills missing credentials", func(t *testing.T) {
		t.Setenv(vectorstore.EnvAPIKey, "pc-from-env")
		t.Setenv(vectorstore.EnvIndexName, "index-from-env")

		config := vectorstore.NewConfig()
		require.NoError(t, config.Validate())

		assert.Equal(t, "pc-from-env", config.APIKey)
		assert.Equal(t, "index-from-env", config.IndexName)
	})

	t.Run("explicit values win over the environment", func(t *testing.T) {
		t.Setenv(vectorstore.EnvAPIKey, "pc-from-env")
		t.Setenv(vectorstore.EnvIndexName, "index-from-env")

		config := vectorstore.NewConfig(
			vectorstore.WithAPIKey("pc-explicit"),
			vectorstore.WithIndexName("index-explicit"),
		)
		require.NoError(t, config.Validate())

		assert.Equal(t, "pc-explicit", config.APIKey)
		assert.Equal(t, "index-explicit", config.IndexName)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		t.Setenv(vectorstore.EnvAPIKey, "")
		t.Setenv(vectorstore.EnvIndexName, "")

		config := vectorstore.NewConfig(vectorstore.WithIndexName("recall"))
		require.ErrorIs(t, config.Validate(), vectorstore.ErrMissingAPIKey)
	})

	t.Run("missing index name", func(t *testing.T) {
		t.Setenv(vectorstore.EnvAPIKey, "")
		t.Setenv(vectorstore.EnvIndexName, "")

		config := vectorstore.NewConfig(vectorstore.WithAPIKey("pc-secret"))
		require.ErrorIs(t, config.Validate(), vectorstore.ErrMissingIndexName)
	})

	t.Run("invalid dimension", func(t *testing.T) {
		config := vectorstore.NewConfig(
			vectorstore.WithAPIKey("pc-secret"),
			vectorstore.WithIndexName("recall"),
			vectorstore.WithDimension(-5),
		)
		require.ErrorIs(t, config.Validate(), vectorstore.ErrInvalidDimension)
	})

	t.Run("valid configuration normalizes defaults", func(t *testing.T) {
		config := &vectorstore.Config{APIKey: "pc-secret", IndexName: "recall"}
		require.NoError(t, config.Validate())

		assert.Equal(t, vectorstore.DefaultDimension, config.Dimension)
		assert.Equal(t, vectorstore.DefaultMetric, config.Metric)
	})
}
