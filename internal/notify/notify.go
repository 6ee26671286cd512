package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Notifier receives fire-and-forget notifications.
type Notifier interface {
	Notify(message string, count int)
}

// Func adapts a function to Notifier.
type Func func(message string, count int)

// Notify implements Notifier.
func (f Func) Notify(message string, count int) { f(message, count) }

// Discard drops every notification.
var Discard Notifier = Func(func(string, int) {})

// Toast is the notification currently on display.
type Toast struct {
	Message string
	Count   int
}

// Toaster prints each notification and keeps it as the current toast until
// the dismiss delay elapses. A newer toast replaces the current one and
// restarts the delay; a repeat of the toast still on display is not printed
// again.
type Toaster struct {
	w     io.Writer
	delay time.Duration

	mu      sync.Mutex
	current *Toast
	timer   *time.Timer
}

// NewToaster returns a Toaster writing to w.
func NewToaster(w io.Writer, delay time.Duration) *Toaster {
	return &Toaster{w: w, delay: delay}
}

// Notify implements Notifier.
func (t *Toaster) Notify(message string, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil || t.current.Message != message {
		fmt.Fprintf(t.w, "» %s\n", message)
	}

	toast := &Toast{Message: message, Count: count}
	t.current = toast
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() { t.dismiss(toast) })
}

// showing returns the toast on display, if any.
func (t *Toaster) showing() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

func (t *Toaster) dismiss(toast *Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == toast {
		t.current = nil
	}
}
