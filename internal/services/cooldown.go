package services

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

var retryDelayPattern = regexp.MustCompile(`after (\d+) seconds`)

// ParseRetryDelay extracts the wait in seconds from a backend throttle
// message ("... after 42 seconds"). ok is false when the message does not
// match, in which case no cooldown applies and a generic error is shown.
func ParseRetryDelay(msg string) (int, bool) {
	m := retryDelayPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CooldownTracker mirrors a backend rate limit on the client side: a single
// countdown at one-second granularity, no concurrent timers. The clock is
// injectable for tests.
type CooldownTracker struct {
	now   func() time.Time
	until time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{now: time.Now}
}

func NewCooldownTrackerWithClock(now func() time.Time) *CooldownTracker {
	return &CooldownTracker{now: now}
}

func (c *CooldownTracker) Begin(seconds int) {
	if seconds <= 0 {
		return
	}
	c.until = c.now().Add(time.Duration(seconds) * time.Second)
}

// Remaining reports whole seconds left, rounded up so the display never
// shows 0 while the cooldown is still active.
func (c *CooldownTracker) Remaining() int {
	d := c.until.Sub(c.now())
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func (c *CooldownTracker) Active() bool {
	return c.Remaining() > 0
}

// Login flow states.
type LoginState int

const (
	StateAwaitingEmail LoginState = iota
	StateCodeSent
	StateAuthenticated
)

var (
	ErrCooldownActive = errors.New("resend is cooling down")
	ErrBadTransition  = errors.New("action not valid in this state")
)

// LoginFlow is the client-side state machine for the one-time-code login:
// awaiting-email -> code-sent -> authenticated, with "change email" backing
// out and "resend" self-looping subject to the cooldown. Resends during an
// active cooldown are rejected locally, before any backend call.
type LoginFlow struct {
	state    LoginState
	email    string
	cooldown *CooldownTracker
}

func NewLoginFlow() *LoginFlow {
	return &LoginFlow{
		state:    StateAwaitingEmail,
		cooldown: NewCooldownTracker(),
	}
}

func NewLoginFlowWithClock(now func() time.Time) *LoginFlow {
	return &LoginFlow{
		state:    StateAwaitingEmail,
		cooldown: NewCooldownTrackerWithClock(now),
	}
}

func (f *LoginFlow) State() LoginState { return f.state }
func (f *LoginFlow) Email() string     { return f.email }
func (f *LoginFlow) Remaining() int    { return f.cooldown.Remaining() }

// CodeSent records a successful send and moves to code-sent.
func (f *LoginFlow) CodeSent(email string) error {
	if f.state == StateAuthenticated {
		return ErrBadTransition
	}
	f.state = StateCodeSent
	f.email = email
	return nil
}

// Throttled applies a backend throttle message. If the message carries a
// parseable delay the cooldown starts and the caller renders a countdown;
// otherwise the caller shows a generic error and no cooldown applies.
func (f *LoginFlow) Throttled(msg string) (countdown int, ok bool) {
	secs, ok := ParseRetryDelay(msg)
	if !ok {
		return 0, false
	}
	f.cooldown.Begin(secs)
	return secs, true
}

// Resend gates the self-loop on code-sent: while the cooldown is active it
// fails locally without contacting the backend.
func (f *LoginFlow) Resend() error {
	if f.state != StateCodeSent {
		return ErrBadTransition
	}
	if f.cooldown.Active() {
		return ErrCooldownActive
	}
	return nil
}

// ChangeEmail backs out to awaiting-email and clears the entered address.
func (f *LoginFlow) ChangeEmail() error {
	if f.state != StateCodeSent {
		return ErrBadTransition
	}
	f.state = StateAwaitingEmail
	f.email = ""
	return nil
}

// Authenticated is terminal; the caller redirects away from the login surface.
func (f *LoginFlow) Authenticated() error {
	if f.state != StateCodeSent {
		return ErrBadTransition
	}
	f.state = StateAuthenticated
	return nil
}
