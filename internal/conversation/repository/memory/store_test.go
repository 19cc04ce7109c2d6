package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecodrive-query-api/internal/model"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(10, time.Hour)

	_, found, err := s.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)

	h := model.History{{Role: model.RoleUser, Content: "hola"}, {Role: model.RoleAssistant, Content: "Hola!"}}
	require.NoError(t, s.Save(ctx, "c1", h))

	got, found, err := s.Load(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, h, got)
}

func TestStore_IsolatesCallerSlices(t *testing.T) {
	ctx := context.Background()
	s := New(10, time.Hour)

	h := model.History{{Role: model.RoleUser, Content: "original"}}
	require.NoError(t, s.Save(ctx, "c1", h))
	h[0].Content = "mutated after save"

	got, _, _ := s.Load(ctx, "c1")
	got[0].Content = "mutated after load"

	again, _, _ := s.Load(ctx, "c1")
	assert.Equal(t, "original", again[0].Content)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := New(10, time.Hour)
	require.NoError(t, s.Save(ctx, "c1", model.History{}))

	found, err := s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := New(10, 20*time.Millisecond)
	require.NoError(t, s.Save(ctx, "c1", model.History{{Role: model.RoleUser, Content: "x"}}))

	time.Sleep(60 * time.Millisecond)
	_, found, err := s.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_EvictsBeyondMaxEntries(t *testing.T) {
	ctx := context.Background()
	s := New(2, time.Hour)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, id, model.History{}))
	}

	_, found, _ := s.Load(ctx, "a")
	assert.False(t, found)
	_, found, _ = s.Load(ctx, "c")
	assert.True(t, found)
}
