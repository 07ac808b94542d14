package interpose

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NotNil(t, s.MetricsHandler())
}

func TestNewRejectsInvalidCutoff(t *testing.T) {
	s, err := New(WithSizeCutoff(-1))
	assert.Nil(t, s)
	assert.Error(t, err)
}

func TestNewRejectsMissingConfigFile(t *testing.T) {
	s, err := New(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Nil(t, s)
	assert.Error(t, err)
}

func TestNewLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size_cutoff: 4096\n"), 0600))

	s, err := New(WithConfigFile(path))
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestMetricsDisabled(t *testing.T) {
	s, err := New(WithMetrics(false))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.MetricsHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDefaultIsSingleton(t *testing.T) {
	first := Default()
	second := Default()
	assert.Same(t, first, second)
}
