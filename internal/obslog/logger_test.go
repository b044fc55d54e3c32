package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionLogger(t *testing.T) {
	logger, err := New("info", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewDevelopmentLogger(t *testing.T) {
	logger, err := New("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	logger, err := New("not-a-level", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
