package qdrant

import (
	"testing"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/moviesearch/store"
)

func TestParseLocation(t *testing.T) {
	ep, err := parseLocation("qdrant://vectors.internal:6335/films?api_key=secret&tls=true")
	require.NoError(t, err)

	assert.Equal(t, "vectors.internal", ep.host)
	assert.Equal(t, 6335, ep.port)
	assert.Equal(t, "films", ep.collection)
	assert.Equal(t, "secret", ep.apiKey)
	assert.True(t, ep.tls)
}

func TestParseLocation_Defaults(t *testing.T) {
	ep, err := parseLocation("qdrant://localhost")
	require.NoError(t, err)

	assert.Equal(t, defaultPort, ep.port)
	assert.Empty(t, ep.collection)
	assert.False(t, ep.tls)
}

func TestParseLocation_MissingHost(t *testing.T) {
	_, err := parseLocation("qdrant:///movies")
	require.Error(t, err)
}

func TestPointID_RoundTrip(t *testing.T) {
	assert.Equal(t, "42", idString(pointID("42")))

	uuid := "5c56c793-69f3-4fbf-87e6-c4bf54c28c26"
	assert.Equal(t, uuid, idString(pointID(uuid)))

	assert.Empty(t, idString(nil))
}

func TestPayloadMovie(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	payload := pb.NewValueMap(map[string]any{
		fieldTitle:     "Alien",
		fieldPlot:      "In space no one can hear you scream.",
		fieldYear:      1979,
		fieldModel:     "sentence-transformers/all-MiniLM-L6-v2",
		fieldTimestamp: ts.Unix(),
	})

	m := payloadMovie(pb.NewIDNum(7), payload)

	assert.Equal(t, "7", m.Id)
	assert.Equal(t, "Alien", m.Title)
	assert.Equal(t, 1979, m.Year)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", m.EmbeddingModel)
	assert.True(t, ts.Equal(m.EmbeddingTimestamp))
}

func TestPayloadMovie_MissingFields(t *testing.T) {
	m := payloadMovie(pb.NewIDNum(1), map[string]*pb.Value{})

	assert.Empty(t, m.Title)
	assert.Zero(t, m.Year)
	assert.True(t, m.EmbeddingTimestamp.IsZero())
}

func TestCheckVectorParams(t *testing.T) {
	named := pb.NewVectorsConfigMap(map[string]*pb.VectorParams{
		"vector_embedding": {Size: 384, Distance: pb.Distance_Cosine},
	})

	assert.NoError(t, checkVectorParams(named, "vector_embedding", 384))
	assert.ErrorIs(t, checkVectorParams(named, "vector_embedding", 768), store.ErrVectorSize)
	assert.Error(t, checkVectorParams(named, "plot_vector", 384))

	unnamed := pb.NewVectorsConfig(&pb.VectorParams{Size: 384, Distance: pb.Distance_Cosine})
	assert.Error(t, checkVectorParams(unnamed, "vector_embedding", 384))
}
