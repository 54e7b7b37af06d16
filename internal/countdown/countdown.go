// Package countdown provides a cancellable one-second countdown.
//
// Every transition (start, pause, resume, cancel) issues a fresh Token.
// Ticks carry the token they were scheduled under, so a tick scheduled
// before a transition is rejected after it.
package countdown

// Token identifies one run of the countdown. The zero Token is never issued.
type Token uint64

// Countdown tracks remaining whole seconds.
type Countdown struct {
	total     int
	remaining int
	running   bool
	token     Token
}

// New returns an idle countdown.
func New() *Countdown {
	return &Countdown{}
}

// Start resets the countdown to seconds and runs it.
func (c *Countdown) Start(seconds int) Token {
	if seconds < 0 {
		seconds = 0
	}
	c.total = seconds
	c.remaining = seconds
	c.running = seconds > 0
	return c.next()
}

// Pause stops ticking and keeps the remaining time.
func (c *Countdown) Pause() {
	if !c.running {
		return
	}
	c.running = false
	c.next()
}

// Resume continues a paused countdown. It returns the current token
// unchanged when there is nothing to resume.
func (c *Countdown) Resume() Token {
	if c.running || c.remaining <= 0 {
		return c.token
	}
	c.running = true
	return c.next()
}

// Cancel stops the countdown and clears the remaining time.
func (c *Countdown) Cancel() {
	c.remaining = 0
	c.running = false
	c.next()
}

// Tick consumes one second if token is current and the countdown runs.
// ok reports whether the tick applied; expired reports that it reached zero.
func (c *Countdown) Tick(token Token) (expired, ok bool) {
	if token != c.token || !c.running {
		return false, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		c.next()
		return true, true
	}
	return false, true
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Total returns the seconds the countdown was started with.
func (c *Countdown) Total() int { return c.total }

// Running reports whether ticks are currently accepted.
func (c *Countdown) Running() bool { return c.running }

// Token returns the current token.
func (c *Countdown) Token() Token { return c.token }

func (c *Countdown) next() Token {
	c.token++
	return c.token
}
