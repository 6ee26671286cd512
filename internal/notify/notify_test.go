package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToaster_PrintsAndDismisses(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(&buf, 20*time.Millisecond)

	toaster.Notify("Auto-updated remaining principal for 2 loan(s)", 2)

	assert.Contains(t, buf.String(), "Auto-updated remaining principal for 2 loan(s)")
	cur, ok := toaster.showing()
	require.True(t, ok)
	assert.Equal(t, 2, cur.Count)

	assert.Eventually(t, func() bool {
		_, ok := toaster.showing()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestToaster_NewerToastReplaces(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(&buf, time.Hour)

	toaster.Notify("first", 1)
	toaster.Notify("second", 3)

	cur, ok := toaster.showing()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Message)
	assert.Equal(t, 3, cur.Count)
}

func TestToaster_RepeatWhileShowingPrintsOnce(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(&buf, time.Hour)

	toaster.Notify("Posted 1 recurring item(s) due this month", 1)
	toaster.Notify("Posted 1 recurring item(s) due this month", 1)

	assert.Equal(t, 1, strings.Count(buf.String(), "Posted 1 recurring"))
	_, ok := toaster.showing()
	assert.True(t, ok)
}

func TestToaster_RepeatAfterDismissPrintsAgain(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(&buf, 10*time.Millisecond)

	toaster.Notify("again", 1)
	assert.Eventually(t, func() bool {
		_, ok := toaster.showing()
		return !ok
	}, time.Second, 5*time.Millisecond)
	toaster.Notify("again", 1)

	assert.Equal(t, 2, strings.Count(buf.String(), "again"))
}

func TestFunc(t *testing.T) {
	var got []int
	n := Func(func(_ string, count int) { got = append(got, count) })
	n.Notify("x", 4)
	Discard.Notify("ignored", 9)
	assert.Equal(t, []int{4}, got)
}
