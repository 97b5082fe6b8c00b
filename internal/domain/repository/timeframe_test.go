package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeframe(t *testing.T) {
	assert.Equal(t, TF4h, NormalizeTimeframe("4h"))
	assert.Equal(t, TF1h, NormalizeTimeframe(""))
	assert.Equal(t, TF1h, NormalizeTimeframe("2h"))
	assert.Equal(t, TF1d, NormalizeTimeframe("1d"))
}

func TestIsValidTimeframe(t *testing.T) {
	assert.True(t, IsValidTimeframe(TF1m))
	assert.True(t, IsValidTimeframe(TF15m))
	assert.False(t, IsValidTimeframe(Timeframe("7h")))
	assert.False(t, IsValidTimeframe(Timeframe("")))
}
