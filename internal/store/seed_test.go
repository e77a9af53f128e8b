package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeterminism(t *testing.T) {
	a, b := NewStream("alpha"), NewStream("alpha")
	assert.Equal(t, a.Intn(1000000), b.Intn(1000000))
	assert.Equal(t, a.Child("x").Intn(1000000), b.Child("x").Intn(1000000))
	assert.Zero(t, a.Intn(0))
}

func TestSeedWritesValidSaves(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()
	made, err := m.Seed(ctx, 5, "alpha")
	require.NoError(t, err)
	require.Len(t, made, 5)

	saves, err := m.Sorted()
	require.NoError(t, err)
	require.Len(t, saves, 5)
	for _, st := range saves {
		user, _ := st.String(KeyUsername)
		pass, _ := st.String(KeyPassword)
		assert.Equal(t, st.Name(), user)
		assert.Equal(t, st.Name(), pass)
		creation, _ := st.String(KeySaveCreation)
		assert.Equal(t, SeedCreation, creation)
	}

	again := newManager(t)
	made2, err := again.Seed(ctx, 5, "alpha")
	require.NoError(t, err)
	for i := range made {
		assert.Equal(t, made[i].Name(), made2[i].Name())
	}
}

func TestSeedSkipsTakenNames(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()
	first, err := m.Seed(ctx, 3, "beta")
	require.NoError(t, err)
	second, err := m.Seed(ctx, 3, "beta")
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, st := range append(first, second...) {
		assert.False(t, seen[st.Name()], "duplicate %s", st.Name())
		seen[st.Name()] = true
	}
	_, err = m.Seed(ctx, -1, "beta")
	assert.Error(t, err)
}
