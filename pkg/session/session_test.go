package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/stacknotes/pkg/integrations/github"
)

func TestAnonymous(t *testing.T) {
	s := Anonymous()
	if s.SignedIn() {
		t.Error("anonymous session reports signed in")
	}
	if s.HasLinkedGitHub() {
		t.Error("anonymous session reports linked GitHub")
	}
	s.LinkedGitHub = true
	if s.HasLinkedGitHub() {
		t.Error("LinkedGitHub without a user must not count")
	}

	var nilSess *Session
	if nilSess.SignedIn() || nilSess.HasLinkedGitHub() {
		t.Error("nil session reports state")
	}
}

func TestLinkGitHub(t *testing.T) {
	s, err := New(&User{ID: "u1", Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if s.HasLinkedGitHub() {
		t.Fatal("new session already linked")
	}
	s.LinkGitHub(&github.User{Login: "alice"}, "gho_x")
	if !s.HasLinkedGitHub() || s.AccessToken != "gho_x" {
		t.Errorf("after LinkGitHub: %+v", s)
	}
}

func TestValidateID(t *testing.T) {
	id, err := GenerateID()
	if err != nil {
		t.Fatal(err)
	}
	for _, good := range []string{id, "abc-DEF_123"} {
		if err := ValidateID(good); err != nil {
			t.Errorf("ValidateID(%q) = %v", good, err)
		}
	}
	for _, bad := range []string{"", "../etc/passwd", "a b", "a/b", string(make([]byte, 200))} {
		if err := ValidateID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ValidateID(%q) = %v, want ErrInvalidID", bad, err)
		}
	}
}

// testStore runs the behaviour shared by every Store.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	sess, err := New(&User{ID: "u1", Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.User.Username != "alice" {
		t.Errorf("Username = %q", got.User.Username)
	}

	if got, _ := store.Get(ctx, "missing"); got != nil {
		t.Error("Get(missing) returned a session")
	}
	if got, _ := store.Get(ctx, "../../etc/passwd"); got != nil {
		t.Error("Get(traversal) returned a session")
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("session survived Delete")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testStore(t, store)

	ctx := context.Background()
	expired := &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	store.Set(ctx, expired)
	if got, _ := store.Get(ctx, "old"); got != nil {
		t.Error("expired session returned")
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, store)

	ctx := context.Background()
	expired := &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.json")); !os.IsNotExist(err) {
		t.Error("Cleanup kept an expired session")
	}

	if err := store.Set(ctx, &Session{ID: "../escape"}); err == nil {
		t.Error("Set accepted an unsafe id")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/xdg/stacknotes/sessions" {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func TestMemoryStateStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStateStore()

	state, err := s.Generate(ctx, "sess-1|search", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	data, err := s.Consume(ctx, state)
	if err != nil || data != "sess-1|search" {
		t.Fatalf("Consume() = %q, %v", data, err)
	}
	if _, err := s.Consume(ctx, state); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Consume() error = %v, want ErrInvalidState", err)
	}

	old, _ := s.Generate(ctx, "x", -time.Second)
	if _, err := s.Consume(ctx, old); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expired Consume() error = %v, want ErrInvalidState", err)
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("STACKNOTES_TEST_REDIS")
	if url == "" {
		t.Skip("STACKNOTES_TEST_REDIS not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	store := NewRedisStore(client)
	testStore(t, store)

	ctx := context.Background()
	state, err := store.Generate(ctx, "payload", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if data, err := store.Consume(ctx, state); err != nil || data != "payload" {
		t.Errorf("Consume() = %q, %v", data, err)
	}
	if _, err := store.Consume(ctx, state); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Consume() error = %v", err)
	}
}
