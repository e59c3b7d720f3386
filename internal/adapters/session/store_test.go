package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

// storeContract runs the behaviour every ports.SessionStore must share.
func storeContract(t *testing.T, store ports.SessionStore) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	})

	t.Run("update missing", func(t *testing.T) {
		err := store.Update(ctx, "missing", func(s *domain.Session) error { return nil })
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	})

	t.Run("round trip", func(t *testing.T) {
		s := domain.NewSession("abc", time.Now())
		s.Credential = &domain.Credential{Cookies: []domain.CredentialCookie{{Name: "JSESSIONID", Value: "1"}}}
		s.Views.Courses.Result = domain.Succeeded([]domain.Course{{Code: "NSS", ECTS: 6}}, "")
		require.NoError(t, store.Create(ctx, s))

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, got.Authenticated())
		assert.Equal(t, "NSS", got.Views.Courses.Result.Data[0].Code)
		assert.Equal(t, domain.DefaultRegistration, got.Views.Register.Form)
	})

	t.Run("update applies fn", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, domain.NewSession("upd", time.Now())))

		err := store.Update(ctx, "upd", func(s *domain.Session) error {
			s.Section = domain.SectionAdmin
			s.Begin(domain.ViewSemesters)
			return nil
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, "upd")
		require.NoError(t, err)
		assert.Equal(t, domain.SectionAdmin, got.Section)
		assert.True(t, got.IsCurrent(domain.ViewSemesters, 1))
	})

	t.Run("update error keeps session", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, domain.NewSession("keep", time.Now())))
		boom := errors.New("boom")

		err := store.Update(ctx, "keep", func(s *domain.Session) error {
			s.Section = domain.SectionTeacher
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := store.Get(ctx, "keep")
		require.NoError(t, err)
		assert.Equal(t, domain.SectionNone, got.Section)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, domain.NewSession("race", time.Now())))

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = store.Update(ctx, "race", func(s *domain.Session) error {
					s.Begin(domain.ViewDashboard)
					return nil
				})
			}()
		}
		wg.Wait()

		got, err := store.Get(ctx, "race")
		require.NoError(t, err)
		assert.Equal(t, uint64(5), got.Seq[domain.ViewDashboard])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, domain.NewSession("gone", time.Now())))
		require.NoError(t, store.Delete(ctx, "gone"))

		_, err := store.Get(ctx, "gone")
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Hour))
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	storeContract(t, store)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Create(ctx, domain.NewSession("ttl", now)))

	now = now.Add(30 * time.Second)
	require.NoError(t, store.Update(ctx, "ttl", func(s *domain.Session) error { return nil }))

	now = now.Add(45 * time.Second)
	_, err := store.Get(ctx, "ttl")
	require.NoError(t, err, "update should slide the expiry")

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "ttl")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestMemoryStore_CreateEvictsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Create(ctx, domain.NewSession(fmt.Sprintf("old-%d", i), now)))
	}
	require.Equal(t, 1000, store.Len())

	now = now.Add(24 * time.Hour)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.Create(ctx, domain.NewSession(fmt.Sprintf("new-%d", i), now)))
	}

	assert.Equal(t, 10, store.Len())
	_, err := store.Get(ctx, "new-9")
	assert.NoError(t, err)
}

func TestMemoryStore_SweepKeepsLiveSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Create(ctx, domain.NewSession("stale", now)))
	now = now.Add(50 * time.Second)
	require.NoError(t, store.Create(ctx, domain.NewSession("fresh", now)))

	now = now.Add(30 * time.Second)
	require.NoError(t, store.Create(ctx, domain.NewSession("latest", now)))

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Create(ctx, domain.NewSession("copy", time.Now())))

	got, err := store.Get(ctx, "copy")
	require.NoError(t, err)
	got.Section = domain.SectionStudent

	again, err := store.Get(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, domain.SectionNone, again.Section)
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Create(ctx, domain.NewSession("k1", time.Now())))

	assert.True(t, mr.Exists("sis:session:k1"))
	assert.Equal(t, time.Hour, mr.TTL("sis:session:k1"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "k1")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestRedisStore_CorruptSession(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("sis:session:bad", "{not json"))

	_, err := store.Get(ctx, "bad")

	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestRedisStore_PingFailsWhenDown(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	assert.Error(t, store.Ping(context.Background()))
}
