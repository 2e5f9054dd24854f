package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "muster.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisStore := NewRedisStore(client, "muster:", 0)
	t.Cleanup(func() { _ = redisStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
		"redis":  redisStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 123_456_789, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
			}

			doc := Document{Key: "principality:base:v1", Payload: []byte{0x81, 0xa1, 'a', 0x01}, UpdatedAt: stamp}
			if err := s.Put(ctx, doc); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := s.Get(ctx, doc.Key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Key != doc.Key || string(got.Payload) != string(doc.Payload) {
				t.Errorf("got %+v, want %+v", got, doc)
			}
			if want := stamp.Truncate(time.Millisecond); !got.UpdatedAt.Equal(want) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, want)
			}

			// Upsert replaces.
			doc.Payload = []byte("second")
			if err := s.Put(ctx, doc); err != nil {
				t.Fatalf("Put again: %v", err)
			}
			got, err = s.Get(ctx, doc.Key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got.Payload) != "second" {
				t.Errorf("payload = %q, want second", got.Payload)
			}
		})
	}
}

func TestStorePutValidates(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, Document{Payload: []byte("x")}); err == nil {
				t.Error("expected error for empty key")
			}
			if err := s.Put(ctx, Document{Key: "k"}); err == nil {
				t.Error("expected error for empty payload")
			}
		})
	}
}

func TestStorePutStampsTime(t *testing.T) {
	ctx := context.Background()
	before := time.Now().Add(-time.Second)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, Document{Key: "k", Payload: []byte("x")}); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.UpdatedAt.Before(before) {
				t.Errorf("UpdatedAt = %v, want a current timestamp", got.UpdatedAt)
			}
		})
	}
}

func TestMemoryStoreCopiesPayload(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	payload := []byte("abc")
	if err := m.Put(ctx, Document{Key: "k", Payload: payload}); err != nil {
		t.Fatal(err)
	}
	payload[0] = 'z'
	got, _ := m.Get(ctx, "k")
	got.Payload[1] = 'z'
	again, _ := m.Get(ctx, "k")
	if string(again.Payload) != "abc" {
		t.Errorf("payload = %q, want abc", again.Payload)
	}
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemoryStore()
	if err := m.Put(ctx, Document{Key: "k", Payload: []byte("x")}); !errors.Is(err, context.Canceled) {
		t.Errorf("Put err = %v, want context.Canceled", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get err = %v, want context.Canceled", err)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "muster:", time.Minute)
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Put(ctx, Document{Key: "k", Payload: []byte("x")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !mr.Exists("muster:k") {
		t.Fatal("expected prefixed key in redis")
	}
	if ttl := mr.TTL("muster:k"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after expiry", err)
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	if _, err := NewRedisClient(context.Background(), addr, "", 0); err == nil {
		t.Error("expected an error for an unreachable server")
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenSQLiteMigratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muster.db")
	for i := 0; i < 2; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = s.Close()
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()
	var n int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Errorf("applied migrations = %d, want 1", n)
	}
}

func TestExtractUp(t *testing.T) {
	in := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	if got := extractUp(in); got != "\nCREATE TABLE a (x INT);\n" {
		t.Errorf("got %q", got)
	}
	if got := extractUp("SELECT 1;"); got != "SELECT 1;" {
		t.Errorf("got %q", got)
	}
}
