package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typemaster/internal/accounts"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/store"
)

type fixedSource string

func (f fixedSource) Paragraph(model.Mode) string { return string(f) }

type failingHistory struct{}

func (failingHistory) InsertSession(context.Context, model.SessionRecord) error {
	return errors.New("history unavailable")
}

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typemaster.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	accts, err := accounts.Open(ctx, st, nil)
	if err != nil {
		t.Fatalf("open accounts: %v", err)
	}
	return New(ctx, accts, st, fixedSource("the quick brown fox jumps"), nil), st
}

func login(t *testing.T, a *App, user string) {
	t.Helper()
	if _, err := a.Register(user, "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := a.Login(user, "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestEasySessionTimeoutAwardsPoints(t *testing.T) {
	a, st := newTestApp(t)
	login(t, a, "ana")
	m := a.Machine()

	snap, err := m.StartMode(model.ModeEasy)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.Duration != 60 {
		t.Fatalf("expected 60s easy session, got %d", snap.Duration)
	}
	m.SubmitWord("the")
	m.SubmitWord("quick")
	m.SubmitWord("brwn")

	ends := 0
	m.Subscribe(func(s session.Snapshot) {
		if s.Result != nil && !s.Active {
			ends++
		}
	})
	token := snap.TickToken
	for i := 0; i < 60; i++ {
		if snap, err = m.Tick(token); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if snap.Active {
		t.Fatalf("expected session to end")
	}
	if ends != 1 {
		t.Fatalf("expected end to publish once, got %d", ends)
	}
	for i := 0; i < 3; i++ {
		m.Tick(token)
	}

	acc, ok := a.CurrentUser()
	if !ok || acc.TotalPoints != 2 {
		t.Fatalf("expected 2 points on account, got %+v", acc)
	}
	recs, err := st.ListSessions(context.Background(), model.HistoryFilter{Username: "ana"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(recs) != 1 || recs[0].Points != 2 || !recs[0].Awarded || recs[0].Reason != model.EndTimeout {
		t.Fatalf("unexpected history: %+v", recs)
	}
}

func TestStopDoesNotAwardByDefault(t *testing.T) {
	a, st := newTestApp(t)
	login(t, a, "ana")
	m := a.Machine()
	if _, err := m.StartMode(model.ModeModerate); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.SubmitWord("the")
	if _, err := m.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if acc, _ := a.CurrentUser(); acc.TotalPoints != 0 {
		t.Fatalf("expected no points after stop, got %d", acc.TotalPoints)
	}
	recs, err := st.ListSessions(context.Background(), model.HistoryFilter{Username: "ana"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(recs) != 1 || recs[0].Awarded || recs[0].Points != 1 {
		t.Fatalf("expected unawarded stop record, got %+v", recs)
	}
}

func TestLogoutAbandonsSession(t *testing.T) {
	a, _ := newTestApp(t)
	login(t, a, "ana")
	m := a.Machine()
	snap, err := m.StartMode(model.ModeEasy)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	m.SubmitWord("the")
	if err := a.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := a.CurrentUser(); ok {
		t.Fatalf("expected no current user")
	}
	after, _ := m.Tick(snap.TickToken)
	if after.Active || after.TimeLeft != 0 {
		t.Fatalf("expected abandoned session, got %+v", after)
	}
	acc, err := a.Login("ana", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if acc.TotalPoints != 0 {
		t.Fatalf("expected no points after logout, got %d", acc.TotalPoints)
	}
}

func TestLoginFailureKeepsUserLoggedOut(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("ana", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := a.Login("ana", "nope"); !errors.Is(err, accounts.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, ok := a.CurrentUser(); ok {
		t.Fatalf("expected no current user")
	}
}

func TestHistoryFailureStillAwards(t *testing.T) {
	ctx := context.Background()
	kv, err := store.Open(filepath.Join(t.TempDir(), "typemaster.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = kv.Close()
	})
	accts, err := accounts.Open(ctx, kv, nil)
	if err != nil {
		t.Fatalf("open accounts: %v", err)
	}
	a := New(ctx, accts, failingHistory{}, fixedSource("a b"), nil,
		session.WithDurations(model.Durations{Easy: 1, Moderate: 1, Advanced: 1}))
	login(t, a, "ana")

	snap, err := a.Machine().StartMode(model.ModeModerate)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	a.Machine().SubmitWord("a")
	if _, err := a.Machine().Tick(snap.TickToken); err == nil {
		t.Fatalf("expected history error to surface")
	}
	if acc, _ := a.CurrentUser(); acc.TotalPoints != 1 {
		t.Fatalf("expected points despite history failure, got %d", acc.TotalPoints)
	}
}
