package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestKeysLifecycle(t *testing.T) {
	ctx := context.Background()
	keys := newTestStore(t).Keys()

	require.NoError(t, keys.Put(ctx, "tok-1", "material-1", time.Hour))

	got, err := keys.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "material-1", got)

	t.Run("put is an upsert", func(t *testing.T) {
		require.NoError(t, keys.Put(ctx, "tok-1", "material-2", time.Hour))
		got, err := keys.Get(ctx, "tok-1")
		require.NoError(t, err)
		require.Equal(t, "material-2", got)
	})

	t.Run("lapsed entry reads as absent", func(t *testing.T) {
		require.NoError(t, keys.Put(ctx, "tok-2", "material", -time.Second))
		_, err := keys.Get(ctx, "tok-2")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, keys.Delete(ctx, "tok-1"))
		require.NoError(t, keys.Delete(ctx, "tok-1"))
		_, err := keys.Get(ctx, "tok-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCountersFixedWindow(t *testing.T) {
	ctx := context.Background()
	counters := newTestStore(t).Counters()

	t.Run("increment counts up from one", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			got, err := counters.Increment(ctx, "rate:read:ip:10.0.0.1")
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	})

	t.Run("ttl unarmed until expire", func(t *testing.T) {
		_, err := counters.TTL(ctx, "rate:read:ip:10.0.0.1")
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, counters.Expire(ctx, "rate:read:ip:10.0.0.1", time.Minute))

		ttl, err := counters.TTL(ctx, "rate:read:ip:10.0.0.1")
		require.NoError(t, err)
		require.Greater(t, ttl, 50*time.Second)
		require.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("lapsed window restarts from one", func(t *testing.T) {
		key := "rate:login:ip:10.0.0.2"
		for range 5 {
			_, err := counters.Increment(ctx, key)
			require.NoError(t, err)
		}
		require.NoError(t, counters.Expire(ctx, key, -time.Second))

		got, err := counters.Increment(ctx, key)
		require.NoError(t, err)
		require.Equal(t, int64(1), got)
	})

	t.Run("concurrent increments never lose a count", func(t *testing.T) {
		const n = 25
		key := "rate:write:user:member-9"

		var wg sync.WaitGroup
		seen := make(chan int64, n)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := counters.Increment(ctx, key)
				require.NoError(t, err)
				seen <- got
			}()
		}
		wg.Wait()
		close(seen)

		distinct := make(map[int64]bool, n)
		var max int64
		for v := range seen {
			require.False(t, distinct[v], "duplicate count %d", v)
			distinct[v] = true
			if v > max {
				max = v
			}
		}
		require.Equal(t, int64(n), max)
	})
}

func TestBans(t *testing.T) {
	ctx := context.Background()
	bans := newTestStore(t).Bans()

	banned, err := bans.IsBanned(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, banned)

	require.NoError(t, bans.Ban(ctx, domain.BannedIP{
		IP:          "203.0.113.9",
		Reason:      "abuse",
		BannedUntil: time.Now().Add(time.Hour),
	}))

	banned, err = bans.IsBanned(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.True(t, banned)

	t.Run("expired ban no longer applies", func(t *testing.T) {
		require.NoError(t, bans.Ban(ctx, domain.BannedIP{
			IP:          "203.0.113.10",
			Reason:      "old",
			BannedUntil: time.Now().Add(-time.Minute),
		}))
		banned, err := bans.IsBanned(ctx, "203.0.113.10")
		require.NoError(t, err)
		require.False(t, banned)
	})
}

func TestMembersAndBoards(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	m := domain.Member{
		ID:           "member-1",
		Username:     "alice",
		Nickname:     "Alice",
		PasswordHash: "$argon2id$...",
		Roles:        []string{"member", "moderator"},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, st.Members().Create(ctx, m))

	t.Run("duplicate username rejected", func(t *testing.T) {
		dup := m
		dup.ID = "member-2"
		require.ErrorIs(t, st.Members().Create(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("roles survive the round trip", func(t *testing.T) {
		got, err := st.Members().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, []string{"member", "moderator"}, got.Roles)
	})

	t.Run("update missing member", func(t *testing.T) {
		err := st.Members().UpdateNickname(ctx, "ghost", "Boo")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	b := domain.Board{
		ID:        "board-1",
		Title:     "Quiet street",
		Content:   "Great school district",
		AuthorID:  m.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, st.Boards().Create(ctx, b))

	t.Run("list returns created posts", func(t *testing.T) {
		posts, err := st.Boards().List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		require.Equal(t, "Quiet street", posts[0].Title)
	})

	t.Run("delete missing board", func(t *testing.T) {
		require.ErrorIs(t, st.Boards().Delete(ctx, "nope"), store.ErrNotFound)
	})
}
