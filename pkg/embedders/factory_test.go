package embedders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/rageval/pkg/config"
)

func TestNewEmbedderNilConfig(t *testing.T) {
	emb, err := NewEmbedder(nil)
	require.NoError(t, err)
	assert.Nil(t, emb, "no backend means lexical-only evaluation")

	emb, err = NewEmbedder(&config.EmbedderConfig{})
	require.NoError(t, err)
	assert.Nil(t, emb)
}

func TestNewEmbedderUnsupportedBackend(t *testing.T) {
	_, err := NewEmbedder(&config.EmbedderConfig{Backend: "bogus", Model: "m"})
	assert.Error(t, err)
}

func TestNewEmbedderOllama(t *testing.T) {
	emb, err := NewEmbedder(&config.EmbedderConfig{
		Backend:   "ollama",
		Model:     "nomic-embed-text",
		Dimension: 768,
	})
	require.NoError(t, err)
	require.NotNil(t, emb)
	assert.Equal(t, 768, emb.GetDimension())
	assert.NoError(t, emb.Close())
}

func TestSupportedBackends(t *testing.T) {
	assert.Equal(t, []string{"openai", "ollama"}, SupportedBackends())
}
