package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRistretto_SetAndGet(t *testing.T) {
	c, err := NewRistretto(100)
	require.NoError(t, err)

	c.Set("k", "value", time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestRistretto_Invalidate(t *testing.T) {
	c, err := NewRistretto(100)
	require.NoError(t, err)

	c.Set("k", 42, time.Minute)
	c.Invalidate("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestRistretto_TTLExpiry(t *testing.T) {
	c, err := NewRistretto(100)
	require.NoError(t, err)

	c.Set("k", "value", 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestNoop_NeverStores(t *testing.T) {
	var c Noop
	c.Set("k", "value", time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
}
