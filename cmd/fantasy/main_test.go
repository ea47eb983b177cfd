package main

import (
	"testing"

	"github.com/cardcap/fantasy-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHolds(t *testing.T) {
	holds, err := parseHolds("")
	require.NoError(t, err)
	assert.Nil(t, holds)

	holds, err = parseHolds("0, 3,4")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4}, holds)

	_, err = parseHolds("1,x")
	assert.Error(t, err)
}

func TestParseOpponent(t *testing.T) {
	fp, err := parseOpponent(" ")
	require.NoError(t, err)
	assert.Nil(t, fp)

	fp, err = parseOpponent("42.5")
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, 42.5, *fp)

	_, err = parseOpponent("lots")
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	for _, cfg := range []config.LoggingConfig{
		{Level: "debug", Format: "json"},
		{Level: "bogus", Format: "console"},
	} {
		logger, err := initLogger(cfg)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
