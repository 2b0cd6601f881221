package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestGeneratorFrozenClock(t *testing.T) {
	at := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return at })

	a, b := g.Next(), g.Next()
	assert.Less(t, a, b)

	tm, err := Time(b)
	require.NoError(t, err)
	assert.True(t, tm.Equal(at))
}

func TestTime(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	tm, err := Time(New())
	require.NoError(t, err)
	assert.True(t, tm.After(before))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
