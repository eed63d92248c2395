package guard_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	guard "github.com/goliatone/go-tenant-guard"
	"github.com/stretchr/testify/mock"
)

// MockVerifier implements guard.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyAccessPin(ctx context.Context, slug, pin string) (*guard.VerifyResult, error) {
	args := m.Called(ctx, slug, pin)
	result, _ := args.Get(0).(*guard.VerifyResult)
	return result, args.Error(1)
}

// RecordingNavigator captures replacement redirects.
type RecordingNavigator struct {
	mu      sync.Mutex
	Targets []string
}

func (n *RecordingNavigator) Replace(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Targets = append(n.Targets, url)
}

func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Targets) == 0 {
		return ""
	}
	return n.Targets[len(n.Targets)-1]
}

// capturingLogger records formatted log lines across all levels.
type capturingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *capturingLogger) record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *capturingLogger) Debug(format string, args ...any) { l.record(format, args...) }
func (l *capturingLogger) Info(format string, args ...any)  { l.record(format, args...) }
func (l *capturingLogger) Warn(format string, args ...any)  { l.record(format, args...) }
func (l *capturingLogger) Error(format string, args ...any) { l.record(format, args...) }

func (l *capturingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// fixedClock returns a clock function pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// movableClock is a clock that tests can advance.
type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMovableClock(start time.Time) *movableClock {
	return &movableClock{now: start}
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
