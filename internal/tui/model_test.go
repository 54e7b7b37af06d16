package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/accounts"
	"github.com/verte-zerg/typemaster/internal/app"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/store"
)

type fixedSource string

func (f fixedSource) Paragraph(model.Mode) string { return string(f) }

func newTestModel(t *testing.T, durations model.Durations) (*Model, *app.App) {
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
	a := app.New(ctx, accts, st, fixedSource("alpha beta gamma"), nil, session.WithDurations(durations))
	return NewModel(a, durations), a
}

func loggedInModel(t *testing.T, durations model.Durations) (*Model, *app.App) {
	t.Helper()
	m, a := newTestModel(t, durations)
	if _, err := a.Register("ada", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := a.Login("ada", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.screen = screenMenu
	return m, a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestRegisterThenLogin(t *testing.T) {
	m, a := newTestModel(t, model.DefaultDurations())

	send(m, keyOf(tea.KeyCtrlR), runes("ada"), keyOf(tea.KeyTab), runes("secret"), keyOf(tea.KeyEnter))
	if m.notice == nil || m.notice.title != "Registered" {
		t.Fatalf("expected registration notice, got %+v", m.notice)
	}
	if m.registering {
		t.Fatalf("expected login mode after registering")
	}
	if _, ok := a.CurrentUser(); ok {
		t.Fatalf("register must not log in")
	}

	send(m, keyOf(tea.KeyEnter))
	if m.notice != nil {
		t.Fatalf("expected notice dismissed")
	}
	send(m, runes("secret"), keyOf(tea.KeyEnter))
	if m.screen != screenMenu {
		t.Fatalf("expected menu screen, got %v", m.screen)
	}
	acc, ok := a.CurrentUser()
	if !ok || acc.Username != "ada" {
		t.Fatalf("expected ada logged in, got %+v", acc)
	}
}

func TestLoginFailureKeepsInput(t *testing.T) {
	m, _ := newTestModel(t, model.DefaultDurations())

	send(m, runes("ghost"), keyOf(tea.KeyTab), runes("nope"), keyOf(tea.KeyEnter))
	if m.notice == nil || !m.notice.isError || m.notice.body != "Invalid credentials." {
		t.Fatalf("expected invalid credentials notice, got %+v", m.notice)
	}
	if m.username.Value() != "ghost" || m.password.Value() != "nope" {
		t.Fatalf("expected inputs retained")
	}
	if m.screen != screenAuth {
		t.Fatalf("expected auth screen")
	}
}

func TestEmptyCredentialsRejected(t *testing.T) {
	m, _ := newTestModel(t, model.DefaultDurations())

	send(m, keyOf(tea.KeyEnter))
	if m.notice == nil || m.notice.body != "Enter username and password." {
		t.Fatalf("expected validation notice, got %+v", m.notice)
	}
	send(m, runes("x"))
	if m.username.Value() != "" {
		t.Fatalf("expected input swallowed while notice is shown")
	}
}

func TestTypingScoresWords(t *testing.T) {
	m, _ := loggedInModel(t, model.DefaultDurations())

	cmd := send(m, runes("1"))
	if m.screen != screenGame || !m.snap.Active {
		t.Fatalf("expected active game")
	}
	if cmd == nil {
		t.Fatalf("expected tick to be scheduled")
	}
	send(m, runes("alpha"), keyOf(tea.KeySpace))
	if m.snap.Points != 1 || m.snap.Cursor != 1 {
		t.Fatalf("expected one point at cursor 1, got %d at %d", m.snap.Points, m.snap.Cursor)
	}
	if m.typing.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.typing.Value())
	}
	send(m, runes("bta"), keyOf(tea.KeyEnter))
	if m.snap.Points != 1 || len(m.snap.TypedWords) != 2 {
		t.Fatalf("expected miss to be recorded without a point")
	}
	send(m, keyOf(tea.KeyEnter))
	if len(m.snap.TypedWords) != 2 {
		t.Fatalf("expected empty commit ignored")
	}
}

func TestPauseBlocksTypingAndStaleTicks(t *testing.T) {
	m, _ := loggedInModel(t, model.DefaultDurations())
	send(m, runes("2"))
	first := m.snap.TickToken
	left := m.snap.TimeLeft

	send(m, keyOf(tea.KeyCtrlP))
	if !m.snap.Paused {
		t.Fatalf("expected paused")
	}
	send(m, runes("alpha"), keyOf(tea.KeySpace))
	if len(m.snap.TypedWords) != 0 || m.typing.Value() != "" {
		t.Fatalf("expected typing ignored while paused")
	}
	send(m, tickMsg{token: first})
	if m.snap.TimeLeft != left {
		t.Fatalf("expected stale tick ignored")
	}

	cmd := send(m, keyOf(tea.KeyCtrlP))
	if m.snap.Paused || cmd == nil {
		t.Fatalf("expected resume to schedule a tick")
	}
	send(m, tickMsg{token: first})
	if m.snap.TimeLeft != left {
		t.Fatalf("expected pre-pause tick ignored after resume")
	}
	send(m, tickMsg{token: m.snap.TickToken})
	if m.snap.TimeLeft != left-1 {
		t.Fatalf("expected one second consumed, got %d", m.snap.TimeLeft)
	}
}

func TestTimeoutAwardsPoints(t *testing.T) {
	durations := model.Durations{Easy: 1, Moderate: 1, Advanced: 1}
	m, a := loggedInModel(t, durations)
	send(m, runes("1"), runes("alpha"), keyOf(tea.KeySpace))

	send(m, tickMsg{token: m.snap.TickToken})
	if m.snap.Active {
		t.Fatalf("expected session ended")
	}
	if m.screen != screenMenu {
		t.Fatalf("expected menu after timeout")
	}
	if m.notice == nil || m.notice.title != "Time's up!" {
		t.Fatalf("expected time's up notice, got %+v", m.notice)
	}
	acc, _ := a.CurrentUser()
	if acc.TotalPoints != 1 {
		t.Fatalf("expected 1 total point, got %d", acc.TotalPoints)
	}
}

func TestStopReturnsToMenuWithoutAward(t *testing.T) {
	m, a := loggedInModel(t, model.DefaultDurations())
	send(m, runes("1"), runes("alpha"), keyOf(tea.KeySpace))

	send(m, keyOf(tea.KeyCtrlS))
	if m.snap.Active || m.screen != screenMenu {
		t.Fatalf("expected stopped session on menu")
	}
	if m.notice != nil {
		t.Fatalf("expected no blocking notice on stop")
	}
	if m.status == "" {
		t.Fatalf("expected stop status")
	}
	acc, _ := a.CurrentUser()
	if acc.TotalPoints != 0 {
		t.Fatalf("expected no points awarded, got %d", acc.TotalPoints)
	}
}

func TestEditorFlow(t *testing.T) {
	m, _ := loggedInModel(t, model.DefaultDurations())
	send(m, runes("1"), runes("alpha"), keyOf(tea.KeySpace))

	send(m, keyOf(tea.KeyCtrlE))
	if !m.snap.Editing || !m.snap.Paused {
		t.Fatalf("expected editor open and paused")
	}
	if m.editor.Value() != "alpha beta gamma" {
		t.Fatalf("expected editor staged with paragraph, got %q", m.editor.Value())
	}

	m.editor.SetValue("   ")
	send(m, keyOf(tea.KeyCtrlS))
	if m.notice == nil || m.notice.body != "Paragraph cannot be empty." {
		t.Fatalf("expected empty paragraph notice, got %+v", m.notice)
	}
	if !m.snap.Editing || m.editor.Value() != "   " {
		t.Fatalf("expected editor kept open with input")
	}
	send(m, keyOf(tea.KeyEnter))

	m.editor.SetValue("custom words here")
	send(m, keyOf(tea.KeyCtrlS))
	if m.snap.Editing || m.snap.Paused {
		t.Fatalf("expected editor closed and running")
	}
	if m.snap.Points != 0 || m.snap.TimeLeft != m.snap.Duration {
		t.Fatalf("expected reset after save")
	}
	if m.snap.CurrentTarget() != "custom" {
		t.Fatalf("expected new paragraph, got %q", m.snap.CurrentTarget())
	}
}

func TestEditorCancelKeepsProgress(t *testing.T) {
	m, _ := loggedInModel(t, model.DefaultDurations())
	send(m, runes("1"), runes("alpha"), keyOf(tea.KeySpace))

	send(m, keyOf(tea.KeyCtrlE), runes(" extra"), keyOf(tea.KeyEsc))
	if m.snap.Editing || m.snap.Paused {
		t.Fatalf("expected editor closed and running")
	}
	if m.snap.Points != 1 || m.snap.Paragraph != "alpha beta gamma" {
		t.Fatalf("expected progress kept, got %d points on %q", m.snap.Points, m.snap.Paragraph)
	}
}

func TestLogoutAbandonsSession(t *testing.T) {
	m, a := loggedInModel(t, model.DefaultDurations())
	send(m, runes("3"), runes("alpha"), keyOf(tea.KeySpace))

	send(m, keyOf(tea.KeyCtrlL))
	if m.screen != screenAuth {
		t.Fatalf("expected auth screen after logout")
	}
	if m.snap.Active {
		t.Fatalf("expected session abandoned")
	}
	if _, ok := a.CurrentUser(); ok {
		t.Fatalf("expected no current user")
	}
	acc, err := a.Login("ada", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if acc.TotalPoints != 0 {
		t.Fatalf("expected no points from abandoned session, got %d", acc.TotalPoints)
	}
}

func TestViewRendersEachScreen(t *testing.T) {
	m, _ := loggedInModel(t, model.DefaultDurations())
	send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.View() == "" {
		t.Fatalf("expected menu view")
	}
	send(m, runes("2"))
	if m.View() == "" {
		t.Fatalf("expected game view")
	}
	send(m, keyOf(tea.KeyCtrlE))
	if m.View() == "" {
		t.Fatalf("expected editor view")
	}
}
