package embedding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Update(5)
	assert.Empty(t, buf.String(), "below interval, nothing reported")

	tracker.Update(10)
	assert.Contains(t, buf.String(), "10/100")

	tracker.Finish()
	assert.Contains(t, buf.String(), "100/100")
}

func TestProgressTracker_Increment(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 20, 10)

	tracker.Start()
	for i := 0; i < 4; i++ {
		tracker.Increment(5)
	}
	assert.Contains(t, buf.String(), "20/20")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start()
	tracker.Update(50)
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, buf.String(), "updates before Start are ignored")
	assert.Zero(t, tracker.Elapsed())
}
