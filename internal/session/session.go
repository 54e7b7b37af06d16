// Package session implements the timed typing session state machine.
package session

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typemaster/internal/countdown"
	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/model"
)

// TextSource produces practice paragraphs for a mode.
type TextSource interface {
	Paragraph(mode model.Mode) string
}

// ResultSink receives every ended session.
type ResultSink interface {
	SessionEnded(res Result) error
}

// Result summarizes an ended session.
type Result struct {
	ID       string
	Mode     model.Mode
	Points   int
	Typed    int
	Duration int
	Elapsed  int
	Reason   model.EndReason
	Awarded  bool
	EndedAt  time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithDurations overrides the per-mode session lengths.
func WithDurations(d model.Durations) Option {
	return func(m *Machine) { m.durations = d }
}

// WithAwardOnStop makes a manual stop award points like a timeout.
func WithAwardOnStop(award bool) Option {
	return func(m *Machine) { m.awardOnStop = award }
}

// WithResultSink sets the receiver of ended sessions.
func WithResultSink(sink ResultSink) Option {
	return func(m *Machine) { m.sink = sink }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.log = logger }
}

// Machine owns the state of one typing session at a time. It is not safe
// for concurrent use; all calls are expected from a single event loop.
type Machine struct {
	src         TextSource
	sink        ResultSink
	durations   model.Durations
	awardOnStop bool
	now         func() time.Time
	log         *slog.Logger

	mode      model.Mode
	paragraph string
	targets   []string
	typed     []string
	input     string
	points    int
	typedAll  int
	duration  int
	timer     *countdown.Countdown
	active    bool
	paused    bool
	editing   bool
	editBuf   string
	last      *Result

	subs   map[int]func(Snapshot)
	nextID int
}

// New returns an idle Machine drawing paragraphs from src.
func New(src TextSource, opts ...Option) *Machine {
	m := &Machine{
		src:       src,
		durations: model.DefaultDurations(),
		now:       time.Now,
		log:       slog.Default(),
		timer:     countdown.New(),
		subs:      map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to receive every published snapshot.
// The returned func removes the subscription.
func (m *Machine) Subscribe(fn func(Snapshot)) func() {
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Mode:        m.mode,
		Paragraph:   m.paragraph,
		TargetWords: append([]string(nil), m.targets...),
		TypedWords:  append([]string(nil), m.typed...),
		Cursor:      len(m.typed),
		Input:       m.input,
		Duration:    m.duration,
		TimeLeft:    m.timer.Remaining(),
		Active:      m.active,
		Paused:      m.paused,
		Editing:     m.editing,
		EditBuffer:  m.editBuf,
		Points:      m.points,
		Ticking:     m.active && !m.paused && m.timer.Running(),
		TickToken:   m.timer.Token(),
		Result:      copyResult(m.last),
	}
}

// StartMode begins a new session in mode, replacing any current one.
func (m *Machine) StartMode(mode model.Mode) (Snapshot, error) {
	if _, ok := model.PresetFor(mode); !ok {
		return m.Snapshot(), &model.ValidationError{Field: "mode", Reason: "unknown mode " + string(mode)}
	}
	m.mode = mode
	m.setParagraph(m.src.Paragraph(mode))
	m.points = 0
	m.typedAll = 0
	m.duration = m.durations.For(mode)
	m.timer.Start(m.duration)
	m.active = true
	m.paused = false
	m.editing = false
	m.editBuf = ""
	m.last = nil
	m.log.Debug("session started", "mode", mode, "duration", m.duration, "words", len(m.targets))
	return m.publish(), nil
}

// Tick consumes one second of the countdown scheduled under token.
// Stale tokens and ticks while paused or stopped are ignored.
func (m *Machine) Tick(token countdown.Token) (Snapshot, error) {
	if !m.active || m.paused {
		return m.Snapshot(), nil
	}
	expired, ok := m.timer.Tick(token)
	if !ok {
		return m.Snapshot(), nil
	}
	if expired {
		return m.end(model.EndTimeout, true)
	}
	return m.publish(), nil
}

// Type replaces the input buffer. A trailing space commits the trimmed
// buffer as a word.
func (m *Machine) Type(buffer string) Snapshot {
	if !m.accepting() {
		return m.Snapshot()
	}
	if !strings.HasSuffix(buffer, " ") {
		m.input = buffer
		return m.publish()
	}
	word := strings.TrimSpace(buffer)
	if word == "" {
		m.input = ""
		return m.publish()
	}
	return m.SubmitWord(word)
}

// Commit submits the trimmed input buffer if it is not empty.
func (m *Machine) Commit() Snapshot {
	if !m.accepting() {
		return m.Snapshot()
	}
	word := strings.TrimSpace(m.input)
	if word == "" {
		return m.Snapshot()
	}
	return m.SubmitWord(word)
}

// SubmitWord records raw as the next typed word and scores it against the
// target at the cursor.
func (m *Machine) SubmitWord(raw string) Snapshot {
	if !m.accepting() {
		return m.Snapshot()
	}
	idx := len(m.typed)
	target := ""
	if idx < len(m.targets) {
		target = m.targets[idx]
	}
	m.typed = append(m.typed, raw)
	m.typedAll++
	m.input = ""
	if raw == target {
		m.points++
	}
	if m.mode == model.ModeEasy && len(m.typed) >= len(m.targets) {
		m.setParagraph(m.src.Paragraph(model.ModeEasy))
		m.log.Debug("easy paragraph refilled", "points", m.points)
	}
	return m.publish()
}

// PauseToggle flips the pause flag of an active session. While the editor
// is open the session stays paused.
func (m *Machine) PauseToggle() Snapshot {
	if !m.active || m.editing {
		return m.Snapshot()
	}
	m.paused = !m.paused
	if m.paused {
		m.timer.Pause()
	} else {
		m.timer.Resume()
	}
	return m.publish()
}

// Stop ends the session voluntarily. Points reach the account only when
// the machine was built WithAwardOnStop(true).
func (m *Machine) Stop() (Snapshot, error) {
	return m.halt(model.EndStop, m.awardOnStop)
}

// Abandon ends the session without awarding points, e.g. on logout.
func (m *Machine) Abandon() (Snapshot, error) {
	return m.halt(model.EndLogout, false)
}

// OpenEditor pauses the session and stages the paragraph for editing.
func (m *Machine) OpenEditor() Snapshot {
	if !m.active || m.editing {
		return m.Snapshot()
	}
	if !m.paused {
		m.paused = true
		m.timer.Pause()
	}
	m.editing = true
	m.editBuf = m.paragraph
	return m.publish()
}

// SetEditBuffer replaces the staged editor text.
func (m *Machine) SetEditBuffer(text string) Snapshot {
	if !m.editing {
		return m.Snapshot()
	}
	m.editBuf = text
	return m.publish()
}

// RandomizeEdit stages a fresh paragraph for the current mode.
func (m *Machine) RandomizeEdit() Snapshot {
	if !m.editing {
		return m.Snapshot()
	}
	m.editBuf = m.src.Paragraph(m.mode)
	return m.publish()
}

// SaveEdit replaces the paragraph with text and restarts the session
// progress and countdown. Blank text is rejected and nothing changes.
func (m *Machine) SaveEdit(text string) (Snapshot, error) {
	if !m.active {
		return m.Snapshot(), nil
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return m.Snapshot(), &model.ValidationError{Field: "paragraph", Reason: "paragraph cannot be empty"}
	}
	m.setParagraph(trimmed)
	m.points = 0
	m.typedAll = 0
	m.timer.Start(m.duration)
	m.editing = false
	m.editBuf = ""
	m.paused = false
	m.log.Debug("paragraph edited", "mode", m.mode, "words", len(m.targets))
	return m.publish(), nil
}

// CancelEdit closes the editor and resumes without resetting progress.
func (m *Machine) CancelEdit() Snapshot {
	if !m.editing {
		return m.Snapshot()
	}
	m.editing = false
	m.editBuf = ""
	m.paused = false
	m.timer.Resume()
	return m.publish()
}

func (m *Machine) accepting() bool {
	return m.active && !m.paused
}

func (m *Machine) setParagraph(text string) {
	m.paragraph = text
	m.targets = generator.Words(text)
	m.typed = nil
	m.input = ""
}

func (m *Machine) halt(reason model.EndReason, award bool) (Snapshot, error) {
	if !m.active {
		m.paused = false
		m.editing = false
		m.timer.Cancel()
		return m.publish(), nil
	}
	return m.end(reason, award)
}

func (m *Machine) end(reason model.EndReason, award bool) (Snapshot, error) {
	res := Result{
		ID:       uuid.NewString(),
		Mode:     m.mode,
		Points:   m.points,
		Typed:    m.typedAll,
		Duration: m.duration,
		Elapsed:  m.duration - m.timer.Remaining(),
		Reason:   reason,
		Awarded:  award,
		EndedAt:  m.now(),
	}
	m.timer.Cancel()
	m.active = false
	m.paused = false
	m.editing = false
	m.editBuf = ""
	m.input = ""
	m.last = &res
	m.log.Info("session ended", "mode", res.Mode, "reason", res.Reason, "points", res.Points, "awarded", res.Awarded)

	var err error
	if m.sink != nil {
		err = m.sink.SessionEnded(res)
	}
	return m.publish(), err
}

func (m *Machine) publish() Snapshot {
	snap := m.Snapshot()
	for _, fn := range m.subs {
		fn(snap)
	}
	return snap
}

func copyResult(r *Result) *Result {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
