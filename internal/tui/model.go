// Package tui provides the Bubble Tea interface for the typing game.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/accounts"
	"github.com/verte-zerg/typemaster/internal/app"
	"github.com/verte-zerg/typemaster/internal/countdown"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

type screen int

const (
	screenAuth screen = iota
	screenMenu
	screenGame
)

const echoLines = 3

type tickMsg struct {
	token countdown.Token
}

// notice is a modal message. It swallows input until dismissed.
type notice struct {
	title   string
	body    string
	isError bool
}

// Model implements the Bubble Tea game UI.
type Model struct {
	app       *app.App
	durations model.Durations
	keys      keyMap
	help      help.Model

	width  int
	height int

	screen    screen
	snap      session.Snapshot
	scheduled countdown.Token

	registering bool
	focus       int
	username    textinput.Model
	password    textinput.Model

	typing textinput.Model
	editor textarea.Model
	text   viewport.Model

	notice *notice
	status string
	last   *session.Result
}

// NewModel constructs the game UI on top of a.
func NewModel(a *app.App, durations model.Durations) *Model {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	typing := textinput.New()
	typing.Prompt = "> "
	typing.Placeholder = "Start typing here..."

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = "Paragraph text"

	m := &Model{
		app:       a,
		durations: durations,
		keys:      defaultKeyMap(),
		help:      help.New(),
		username:  username,
		password:  password,
		typing:    typing,
		editor:    editor,
		text:      viewport.New(60, 8),
		snap:      a.Machine().Snapshot(),
	}
	if _, ok := a.CurrentUser(); ok {
		m.screen = screenMenu
	}
	m.layout()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.notice != nil {
			if key.Matches(msg, m.keys.Dismiss) {
				m.notice = nil
			}
			return m, nil
		}
		switch m.screen {
		case screenAuth:
			return m, m.updateAuth(msg)
		case screenMenu:
			return m, m.updateMenu(msg)
		default:
			if m.snap.Editing {
				return m, m.updateEditor(msg)
			}
			return m, m.updateGame(msg)
		}
	default:
		return m, m.forward(msg)
	}
}

// forward passes non-key messages such as cursor blinks to the focused
// component.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch {
	case m.screen == screenAuth:
		m.username, cmd = m.username.Update(msg)
		cmds = append(cmds, cmd)
		m.password, cmd = m.password.Update(msg)
		cmds = append(cmds, cmd)
	case m.snap.Editing:
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	case m.screen == screenGame:
		m.typing, cmd = m.typing.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateAuth(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitAuth()
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		return m.setFocus(1 - m.focus)
	case key.Matches(msg, m.keys.ToggleRegister):
		m.registering = !m.registering
		return nil
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	if i == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m *Model) submitAuth() tea.Cmd {
	username := m.username.Value()
	password := m.password.Value()
	if m.registering {
		acc, err := m.app.Register(username, password)
		if err != nil {
			m.notice = authNotice(err)
			return nil
		}
		m.notice = &notice{
			title: "Registered",
			body:  fmt.Sprintf("Account %q created. You can now log in.", acc.Username),
		}
		m.registering = false
		m.password.Reset()
		return m.setFocus(1)
	}
	if _, err := m.app.Login(username, password); err != nil {
		m.notice = authNotice(err)
		return nil
	}
	m.username.Reset()
	m.password.Reset()
	m.status = ""
	m.screen = screenMenu
	return m.setFocus(0)
}

func authNotice(err error) *notice {
	var verr *model.ValidationError
	var perr *accounts.PersistError
	n := &notice{title: "Cannot continue", isError: true}
	switch {
	case errors.As(err, &verr):
		n.body = "Enter username and password."
	case errors.Is(err, accounts.ErrDuplicateUsername):
		n.body = "Username already exists."
	case errors.Is(err, accounts.ErrInvalidCredentials):
		n.body = "Invalid credentials."
	case errors.As(err, &perr):
		n.body = "Could not save account: " + perr.Err.Error()
	default:
		n.body = err.Error()
	}
	return n
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Easy):
		return m.start(model.ModeEasy)
	case key.Matches(msg, m.keys.Moderate):
		return m.start(model.ModeModerate)
	case key.Matches(msg, m.keys.Advanced):
		return m.start(model.ModeAdvanced)
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	}
	return nil
}

func (m *Model) start(mode model.Mode) tea.Cmd {
	snap, err := m.app.Machine().StartMode(mode)
	if err != nil {
		m.notice = &notice{title: "Cannot start", body: err.Error(), isError: true}
		return nil
	}
	m.status = ""
	m.screen = screenGame
	m.typing.Reset()
	m.text.GotoTop()
	focus := m.typing.Focus()
	return tea.Batch(focus, m.apply(snap))
}

func (m *Model) logout() tea.Cmd {
	err := m.app.Logout()
	m.apply(m.app.Machine().Snapshot())
	m.reportErr(err)
	m.typing.Blur()
	m.editor.Blur()
	m.registering = false
	m.last = nil
	m.screen = screenAuth
	return m.setFocus(0)
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	machine := m.app.Machine()
	switch {
	case key.Matches(msg, m.keys.Pause):
		return m.apply(machine.PauseToggle())
	case key.Matches(msg, m.keys.Edit):
		snap := machine.OpenEditor()
		if !snap.Editing {
			return nil
		}
		m.editor.SetValue(snap.EditBuffer)
		m.typing.Blur()
		return tea.Batch(m.editor.Focus(), m.apply(snap))
	case key.Matches(msg, m.keys.Stop):
		snap, err := machine.Stop()
		cmd := m.apply(snap)
		m.reportErr(err)
		return cmd
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Commit):
		return m.apply(machine.Commit())
	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.text, cmd = m.text.Update(msg)
		return cmd
	}
	if !m.snap.Active || m.snap.Paused {
		return nil
	}
	if msg.Type == tea.KeySpace {
		return m.apply(machine.Type(m.typing.Value() + " "))
	}
	var cmd tea.Cmd
	m.typing, cmd = m.typing.Update(msg)
	return tea.Batch(cmd, m.apply(machine.Type(m.typing.Value())))
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	machine := m.app.Machine()
	switch {
	case key.Matches(msg, m.keys.Save):
		snap, err := machine.SaveEdit(m.editor.Value())
		if err != nil {
			body := err.Error()
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				body = "Paragraph cannot be empty."
			}
			m.notice = &notice{title: "Cannot save", body: body, isError: true}
			return nil
		}
		m.editor.Blur()
		m.text.GotoTop()
		return tea.Batch(m.typing.Focus(), m.apply(snap))
	case key.Matches(msg, m.keys.Randomize):
		snap := machine.RandomizeEdit()
		m.editor.SetValue(snap.EditBuffer)
		return m.apply(snap)
	case key.Matches(msg, m.keys.Cancel):
		m.editor.Blur()
		return tea.Batch(m.typing.Focus(), m.apply(machine.CancelEdit()))
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return tea.Batch(cmd, m.apply(machine.SetEditBuffer(m.editor.Value())))
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.token == m.scheduled {
		m.scheduled = 0
	}
	snap, err := m.app.Machine().Tick(msg.token)
	cmd := m.apply(snap)
	m.reportErr(err)
	return cmd
}

// apply adopts snap as the rendered state and schedules the next tick if
// the countdown is running under a token not yet scheduled.
func (m *Model) apply(snap session.Snapshot) tea.Cmd {
	wasActive := m.snap.Active
	m.snap = snap
	if m.typing.Value() != snap.Input {
		m.typing.SetValue(snap.Input)
	}
	if wasActive && !snap.Active {
		m.sessionOver(snap.Result)
	}
	m.refreshText()
	return m.schedule()
}

func (m *Model) schedule() tea.Cmd {
	if !m.snap.Ticking || m.snap.TickToken == m.scheduled {
		return nil
	}
	token := m.snap.TickToken
	m.scheduled = token
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{token: token}
	})
}

func (m *Model) sessionOver(res *session.Result) {
	m.screen = screenMenu
	m.typing.Blur()
	m.editor.Blur()
	if res == nil {
		return
	}
	m.last = res
	switch {
	case res.Reason == model.EndTimeout:
		m.notice = &notice{
			title: "Time's up!",
			body:  fmt.Sprintf("You earned %d points this session.", res.Points),
		}
	case res.Reason == model.EndStop && res.Awarded:
		m.notice = &notice{
			title: "Session stopped",
			body:  fmt.Sprintf("You earned %d points this session.", res.Points),
		}
	case res.Reason == model.EndStop:
		m.status = fmt.Sprintf("Session stopped. %d points not awarded.", res.Points)
	}
}

func (m *Model) reportErr(err error) {
	if err != nil {
		m.status = "Could not save progress: " + err.Error()
	}
}

func (m *Model) layout() {
	w := m.contentWidth()
	m.text.Width = w
	m.text.Height = m.textHeight()
	m.typing.Width = w - 2
	m.editor.SetWidth(w)
	m.editor.SetHeight(max(5, m.screenHeight()-12))
	m.help.Width = w
	m.refreshText()
}

func (m *Model) contentWidth() int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return max(20, int(float64(width)*0.8))
}

func (m *Model) screenHeight() int {
	if m.height <= 0 {
		return 24
	}
	return m.height
}

func (m *Model) textHeight() int {
	return max(3, m.screenHeight()-18)
}

func (m *Model) refreshText() {
	if !m.snap.Active {
		m.text.SetContent("")
		return
	}
	width := m.text.Width
	lines := paragraphWords(m.snap)
	m.text.SetContent(strings.Join(renderWrapped(lines, width), "\n"))
	row := cursorLine(lines, width, m.snap.Cursor)
	if row < m.text.YOffset || row >= m.text.YOffset+m.text.Height {
		m.text.SetYOffset(max(0, row-m.text.Height/3))
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.notice != nil:
		body = m.viewNotice()
	case m.screen == screenAuth:
		body = m.viewAuth()
	case m.screen == screenMenu:
		body = m.viewMenu()
	case m.snap.Editing:
		body = m.viewEditor()
	default:
		body = m.viewGame()
	}
	content := lipgloss.JoinVertical(lipgloss.Left, body, "", m.viewFooter())
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewHeader() string {
	title := titleStyle.Render("Typing Master")
	acc, ok := m.app.CurrentUser()
	if !ok {
		return title
	}
	user := fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Hi,"), valueStyle.Render(acc.Username),
		labelStyle.Render("Total Points:"), valueStyle.Render(fmt.Sprint(acc.TotalPoints)))
	gap := max(1, m.contentWidth()-lipgloss.Width(title)-lipgloss.Width(user))
	return title + strings.Repeat(" ", gap) + user
}

func (m *Model) viewAuth() string {
	mode := "Login"
	if m.registering {
		mode = "Register"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Typing Master"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(mode))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Accounts are stored locally in plain text."))
	return cardStyle.Width(min(m.contentWidth(), 48)).Render(b.String())
}

func (m *Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Select Mode"))
	b.WriteString("\n\n")
	descriptions := map[model.Mode]string{
		model.ModeEasy:     "short sentences, refilled as you finish",
		model.ModeModerate: "a 15 line paragraph",
		model.ModeAdvanced: "a 20 to 25 line paragraph",
	}
	for i, mode := range model.Modes {
		fmt.Fprintf(&b, "%s  %-9s %s  %s\n",
			valueStyle.Render(fmt.Sprint(i+1)),
			mode.Title(),
			labelStyle.Render(fmt.Sprintf("%4ds", m.durations.For(mode))),
			footerStyle.Render(descriptions[mode]))
	}
	if res := m.last; res != nil {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("Last session: %s, %d points (%s)", res.Mode.Title(), res.Points, res.Reason)))
	}
	return b.String()
}

func (m *Model) viewGame() string {
	snap := m.snap
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	hud := fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("Mode:"), valueStyle.Render(snap.Mode.Title()),
		labelStyle.Render("Time:"), valueStyle.Render(fmt.Sprintf("%ds", snap.TimeLeft)),
		labelStyle.Render("Session Points:"), valueStyle.Render(fmt.Sprint(snap.Points)))
	if snap.Paused {
		hud += "   " + statusStyle.Render("[Paused]")
	}
	b.WriteString(hud)
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.text.View()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Your typing"))
	b.WriteString("\n")

	echo := renderWrapped([][]styledWord{echoWords(snap)}, m.contentWidth())
	if len(echo) > echoLines {
		echo = echo[len(echo)-echoLines:]
	}
	for len(echo) < echoLines {
		echo = append(echo, "")
	}
	b.WriteString(strings.Join(echo, "\n"))
	b.WriteString("\n")
	b.WriteString(inputStyle.Render(m.typing.View()))
	return b.String()
}

func (m *Model) viewEditor() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit paragraph"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Saving resets session points and the timer."))
	b.WriteString("\n\n")
	b.WriteString(m.editor.View())
	return modalStyle.Render(b.String())
}

func (m *Model) viewNotice() string {
	style := modalStyle
	if m.notice.isError {
		style = errorModalStyle
	}
	width := min(m.contentWidth(), 56)
	return style.Width(width).Render(titleStyle.Render(m.notice.title) + "\n\n" + m.notice.body)
}

func (m *Model) viewFooter() string {
	var keys bindings
	switch {
	case m.notice != nil:
		keys = m.keys.noticeHelp()
	case m.screen == screenAuth:
		keys = m.keys.authHelp()
	case m.screen == screenMenu:
		keys = m.keys.menuHelp()
	case m.snap.Editing:
		keys = m.keys.editorHelp()
	default:
		keys = m.keys.gameHelp()
	}
	footer := m.help.View(keys)
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	return footer
}
