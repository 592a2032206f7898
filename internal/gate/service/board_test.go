package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wherehouse/gate/internal/gate/store"
)

func TestBoardOwnership(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	boards := &BoardService{Store: st}
	members := &MemberService{Store: st}

	author, err := members.Register(ctx, "alice", "Alice", "pw", []string{"member"})
	require.NoError(t, err)
	other, err := members.Register(ctx, "bob", "Bob", "pw", []string{"member"})
	require.NoError(t, err)

	post, err := boards.Create(ctx, author.ID, "For sale", "Two bedrooms, one ghost")
	require.NoError(t, err)

	t.Run("author may edit", func(t *testing.T) {
		require.NoError(t, boards.Update(ctx, post.ID, author.ID, "For sale", "Ghost included"))
	})

	t.Run("others may not edit", func(t *testing.T) {
		require.ErrorIs(t, boards.Update(ctx, post.ID, other.ID, "Hijacked", ""), ErrForbidden)
	})

	t.Run("others may not delete", func(t *testing.T) {
		require.ErrorIs(t, boards.Delete(ctx, post.ID, other.ID), ErrForbidden)
	})

	t.Run("author may delete", func(t *testing.T) {
		require.NoError(t, boards.Delete(ctx, post.ID, author.ID))
		_, err := boards.List(ctx)
		require.NoError(t, err)

		err = boards.Update(ctx, post.ID, author.ID, "x", "y")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
