package openapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/infrastructure/http/openapi"
)

func TestGetSpec(t *testing.T) {
	doc, err := openapi.GetSpec()
	require.NoError(t, err)

	for _, path := range []string{
		"/v1/analyses",
		"/v1/analyses/{id}",
		"/v1/events",
		"/v1/events.ics",
		"/v1/events/{id}",
	} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	listEvents := doc.Paths.Value("/v1/events").Get
	require.NotNil(t, listEvents)
	assert.NotNil(t, listEvents.Parameters.GetByInAndName("query", "page_size"))
}

func TestGetSpec_ReturnsIndependentCopies(t *testing.T) {
	a, err := openapi.GetSpec()
	require.NoError(t, err)
	b, err := openapi.GetSpec()
	require.NoError(t, err)

	a.Servers = nil
	assert.NotEmpty(t, b.Servers)
}
