package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRowsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"source":"A","prob":0.5},{"source":"B","prob":0.9}]`))
	}))
	defer server.Close()

	source := NewSource(SourceConfig{BaseURL: server.URL})
	records, err := source.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0]["source"])
	assert.Equal(t, 0.5, records[0]["prob"])
}

func TestFetchRowsWrappedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"interactions":[{"source":"A"}]}}`))
	}))
	defer server.Close()

	source := NewSource(SourceConfig{BaseURL: server.URL, DataPath: "result.interactions"})
	records, err := source.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0]["source"])
}

func TestFetchRowsMissingDataPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"other":[]}`))
	}))
	defer server.Close()

	source := NewSource(SourceConfig{BaseURL: server.URL, DataPath: "data"})
	_, err := source.FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data path")
}

func TestFetchRowsNonTabularPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"just a string"`))
	}))
	defer server.Close()

	source := NewSource(SourceConfig{BaseURL: server.URL})
	_, err := source.FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not tabular")
}

func TestFetchRowsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewSource(SourceConfig{BaseURL: server.URL})
	_, err := source.FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchRowsSendsConfiguredHeaders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	source := NewSource(SourceConfig{
		BaseURL: server.URL,
		Headers: map[string]string{"Authorization": "Bearer token"},
	})
	_, err := source.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token", gotAuth)
}
