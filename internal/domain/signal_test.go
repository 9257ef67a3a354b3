package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	for _, s := range []Signal{SignalBuy, SignalSell, SignalHold} {
		got, err := ParseSignal(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseSignal(" -1 ")
	require.NoError(t, err)
	assert.Equal(t, SignalSell, got)

	_, err = ParseSignal("LONG")
	assert.Error(t, err)
}

func TestSignal_IsTrade(t *testing.T) {
	assert.True(t, SignalBuy.IsTrade())
	assert.True(t, SignalSell.IsTrade())
	assert.False(t, SignalHold.IsTrade())
}
