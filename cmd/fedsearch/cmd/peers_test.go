package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeersCommandStructure(t *testing.T) {
	assert.NotNil(t, peersCmd)
	assert.Equal(t, "peers", peersCmd.Use)
	assert.NotEmpty(t, peersCmd.Short)
	assert.NotNil(t, peersCmd.RunE)
}

func TestServeCommandStructure(t *testing.T) {
	assert.NotNil(t, serveCmd)
	assert.Equal(t, "serve", serveCmd.Use)
	assert.NotEmpty(t, serveCmd.Short)
	assert.NotNil(t, serveCmd.RunE)
}
