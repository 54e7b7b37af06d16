package accounts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/store"
)

type memKV struct {
	data   map[string][]byte
	putErr error
	puts   int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func openStore(t *testing.T, kv KV) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv, nil)
	if err != nil {
		t.Fatalf("open accounts: %v", err)
	}
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	kv := newMemKV()
	s := openStore(t, kv)
	ctx := context.Background()

	acc, err := s.Register(ctx, "  ana ", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acc.Username != "ana" || acc.TotalPoints != 0 {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if _, err := s.Login("ana", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	for _, c := range []struct{ user, pass string }{
		{"ana", "Secret"},
		{"Ana", "secret"},
		{"bo", "secret"},
	} {
		if _, err := s.Login(c.user, c.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login %q/%q: expected invalid credentials, got %v", c.user, c.pass, err)
		}
	}

	var stored []map[string]any
	if err := json.Unmarshal(kv.data[StorageKey], &stored); err != nil {
		t.Fatalf("decode stored blob: %v", err)
	}
	if len(stored) != 1 || stored[0]["username"] != "ana" || stored[0]["password"] != "secret" || stored[0]["totalPoints"] != float64(0) {
		t.Fatalf("unexpected stored layout: %v", stored)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s := openStore(t, newMemKV())
	ctx := context.Background()
	if _, err := s.Register(ctx, "ana", "one"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.Register(ctx, "ana", "two"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected duplicate username, got %v", err)
	}
	if len(s.List()) != 1 {
		t.Fatalf("expected one account, got %d", len(s.List()))
	}
	if _, err := s.Register(ctx, "Ana", "two"); err != nil {
		t.Fatalf("expected case-sensitive usernames, got %v", err)
	}
}

func TestCredentialsValidation(t *testing.T) {
	s := openStore(t, newMemKV())
	ctx := context.Background()
	cases := []struct{ user, pass string }{
		{"", "secret"},
		{"   ", "secret"},
		{"ana", ""},
	}
	for _, c := range cases {
		var verr *model.ValidationError
		if _, err := s.Register(ctx, c.user, c.pass); !errors.As(err, &verr) {
			t.Fatalf("register %q/%q: expected validation error, got %v", c.user, c.pass, err)
		}
		if _, err := s.Login(c.user, c.pass); !errors.As(err, &verr) {
			t.Fatalf("login %q/%q: expected validation error, got %v", c.user, c.pass, err)
		}
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected no accounts")
	}
}

func TestAddPoints(t *testing.T) {
	kv := newMemKV()
	s := openStore(t, kv)
	ctx := context.Background()
	if _, err := s.Register(ctx, "ana", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	total := 0
	for _, delta := range []int{3, 0, 7} {
		acc, err := s.AddPoints(ctx, "ana", delta)
		if err != nil {
			t.Fatalf("add points: %v", err)
		}
		if acc.TotalPoints < total {
			t.Fatalf("total decreased from %d to %d", total, acc.TotalPoints)
		}
		total = acc.TotalPoints
	}
	if total != 10 {
		t.Fatalf("expected 10 points, got %d", total)
	}

	var verr *model.ValidationError
	if _, err := s.AddPoints(ctx, "ana", -1); !errors.As(err, &verr) {
		t.Fatalf("expected negative delta to be rejected, got %v", err)
	}
	if _, err := s.AddPoints(ctx, "ghost", 1); !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected unknown account, got %v", err)
	}

	reloaded := openStore(t, kv)
	acc, ok := reloaded.Get("ana")
	if !ok || acc.TotalPoints != 10 {
		t.Fatalf("expected persisted total 10, got %+v ok=%v", acc, ok)
	}
}

func TestPersistFailures(t *testing.T) {
	kv := newMemKV()
	s := openStore(t, kv)
	ctx := context.Background()
	if _, err := s.Register(ctx, "ana", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	kv.putErr = errors.New("quota exceeded")
	var perr *PersistError
	if _, err := s.Register(ctx, "bo", "secret"); !errors.As(err, &perr) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if _, ok := s.Get("bo"); ok {
		t.Fatalf("expected failed registration to be rolled back")
	}

	acc, err := s.AddPoints(ctx, "ana", 5)
	if !errors.As(err, &perr) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if acc.TotalPoints != 5 {
		t.Fatalf("expected in-memory total to keep the increment, got %d", acc.TotalPoints)
	}

	kv.putErr = nil
	if _, err := s.AddPoints(ctx, "ana", 1); err != nil {
		t.Fatalf("add points: %v", err)
	}
	if acc, _ := openStore(t, kv).Get("ana"); acc.TotalPoints != 6 {
		t.Fatalf("expected next rewrite to carry the total, got %d", acc.TotalPoints)
	}
}

func TestOpenCorruptBlob(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = []byte("{not json")
	if _, err := Open(context.Background(), kv, nil); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSQLiteBackedStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typemaster.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()

	s := openStore(t, st)
	if _, err := s.Register(ctx, "ana", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.AddPoints(ctx, "ana", 4); err != nil {
		t.Fatalf("add points: %v", err)
	}

	reloaded := openStore(t, st)
	acc, err := reloaded.Login("ana", "secret")
	if err != nil {
		t.Fatalf("login after reload: %v", err)
	}
	if acc.TotalPoints != 4 {
		t.Fatalf("expected 4 points, got %d", acc.TotalPoints)
	}
}
