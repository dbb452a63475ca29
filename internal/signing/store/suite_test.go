package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/signing/store"
)

var suiteBase = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestSession(id string, userID string, createdAt time.Time) *store.Session {
	return &store.Session{
		SessionID:     id,
		DocumentHash:  "0x264b191f1a638747dcbbdaf45425c59103e2eb5f7bd6835be768d2ad852b0ae4",
		SignerAddress: "0x51D08bcb16711098616F4fA8b41bD7EEf718b2bF",
		Message:       "Document signing request",
		UserID:        userID,
		Timestamp:     createdAt.Format(time.RFC3339),
		Status:        store.StatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

// runStoreSuite exercises the Store contract. prefix keeps ids unique across
// runs against shared databases.
func runStoreSuite(t *testing.T, s store.Store, prefix string) {
	t.Helper()

	id := func(n int) string { return fmt.Sprintf("%s-session-%d", prefix, n) }
	user := prefix + "-user"

	t.Run("SaveAndFind", func(t *testing.T) {
		ctx := context.Background()

		session := newTestSession(id(1), user, suiteBase)
		require.NoError(t, s.Save(ctx, session))

		loaded, err := s.FindByID(ctx, id(1))
		require.NoError(t, err)
		assert.Equal(t, session.SessionID, loaded.SessionID)
		assert.Equal(t, session.DocumentHash, loaded.DocumentHash)
		assert.Equal(t, session.SignerAddress, loaded.SignerAddress)
		assert.Equal(t, session.Message, loaded.Message)
		assert.Equal(t, store.StatusPending, loaded.Status)
		assert.Empty(t, loaded.Signature)
		assert.True(t, session.CreatedAt.Equal(loaded.CreatedAt))

		err = s.Save(ctx, newTestSession(id(1), user, suiteBase))
		assert.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.FindByID(ctx, id(999))
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, s.Save(ctx, newTestSession("", user, suiteBase)), store.ErrMissingSessionID)
	})

	t.Run("ReturnedCopiesAreDetached", func(t *testing.T) {
		ctx := context.Background()

		loaded, err := s.FindByID(ctx, id(1))
		require.NoError(t, err)
		loaded.Status = store.StatusSigned

		again, err := s.FindByID(ctx, id(1))
		require.NoError(t, err)
		assert.Equal(t, store.StatusPending, again.Status)
	})

	t.Run("FindByUserIDInsertionOrder", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, newTestSession(id(2), user, suiteBase.Add(-time.Hour))))
		require.NoError(t, s.Save(ctx, newTestSession(id(3), prefix+"-other", suiteBase)))
		require.NoError(t, s.Save(ctx, newTestSession(id(4), user, suiteBase.Add(-2*time.Hour))))

		sessions, err := s.FindByUserID(ctx, user)
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, id(1), sessions[0].SessionID)
		assert.Equal(t, id(2), sessions[1].SessionID)
		assert.Equal(t, id(4), sessions[2].SessionID)

		sessions, err = s.FindByUserID(ctx, prefix+"-nobody")
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})

	t.Run("Update", func(t *testing.T) {
		ctx := context.Background()

		session, err := s.FindByID(ctx, id(1))
		require.NoError(t, err)
		version := session.Version

		session.Status = store.StatusSigned
		session.Signature = "0xabc"
		session.VerificationLink = "https://verify.example.com/" + id(1)
		session.UpdatedAt = suiteBase.Add(time.Minute)
		require.NoError(t, s.Update(ctx, session))
		assert.Equal(t, version+1, session.Version)

		loaded, err := s.FindByID(ctx, id(1))
		require.NoError(t, err)
		assert.Equal(t, store.StatusSigned, loaded.Status)
		assert.Equal(t, "0xabc", loaded.Signature)
		assert.Equal(t, session.VerificationLink, loaded.VerificationLink)
		assert.Equal(t, version+1, loaded.Version)
	})

	t.Run("UpdateRejectsStaleVersion", func(t *testing.T) {
		ctx := context.Background()

		first, err := s.FindByID(ctx, id(2))
		require.NoError(t, err)
		second, err := s.FindByID(ctx, id(2))
		require.NoError(t, err)

		first.Status = store.StatusSigned
		first.Signature = "0x01"
		require.NoError(t, s.Update(ctx, first))

		second.Status = store.StatusSigned
		second.Signature = "0x02"
		assert.ErrorIs(t, s.Update(ctx, second), store.ErrConflict)

		loaded, err := s.FindByID(ctx, id(2))
		require.NoError(t, err)
		assert.Equal(t, "0x01", loaded.Signature)
	})

	t.Run("UpdateGuards", func(t *testing.T) {
		ctx := context.Background()

		session, err := s.FindByID(ctx, id(1))
		require.NoError(t, err)

		changedHash := session.Clone()
		changedHash.DocumentHash = "0x00"
		assert.ErrorIs(t, s.Update(ctx, changedHash), store.ErrImmutableField)

		changedSigner := session.Clone()
		changedSigner.SignerAddress = "0x0000000000000000000000000000000000000000"
		assert.ErrorIs(t, s.Update(ctx, changedSigner), store.ErrImmutableField)

		changedSignature := session.Clone()
		changedSignature.Signature = "0xdef"
		assert.ErrorIs(t, s.Update(ctx, changedSignature), store.ErrImmutableField)

		backwards := session.Clone()
		backwards.Status = store.StatusPending
		assert.ErrorIs(t, s.Update(ctx, backwards), store.ErrInvalidTransition)

		missing := newTestSession(id(998), user, suiteBase)
		assert.ErrorIs(t, s.Update(ctx, missing), store.ErrNotFound)
	})

	t.Run("FindByStatus", func(t *testing.T) {
		ctx := context.Background()

		pending, err := s.FindByStatus(ctx, store.StatusPending, suiteBase.Add(-30*time.Minute))
		require.NoError(t, err)

		ids := make([]string, 0, len(pending))
		for _, session := range pending {
			ids = append(ids, session.SessionID)
		}
		assert.Contains(t, ids, id(4))
		assert.NotContains(t, ids, id(1))
		assert.NotContains(t, ids, id(2))
		assert.NotContains(t, ids, id(3))
	})

	t.Run("ConcurrentUpdatesSingleWinner", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, newTestSession(id(5), user, suiteBase)))

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				session, err := s.FindByID(ctx, id(5))
				if err != nil {
					return
				}
				session.Status = store.StatusSigned
				session.Signature = fmt.Sprintf("0x%02x", i)

				if err := s.Update(ctx, session); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)

		loaded, err := s.FindByID(ctx, id(5))
		require.NoError(t, err)
		assert.Equal(t, store.StatusSigned, loaded.Status)
		assert.Equal(t, int64(1), loaded.Version)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Delete(ctx, id(4)))

		_, err := s.FindByID(ctx, id(4))
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, id(4)), store.ErrNotFound)

		sessions, err := s.FindByUserID(ctx, user)
		require.NoError(t, err)
		for _, session := range sessions {
			assert.NotEqual(t, id(4), session.SessionID)
		}
	})
}
