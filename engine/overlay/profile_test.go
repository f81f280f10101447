package overlay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpAfter(t *testing.T) {
	var paths []string
	hook := dumpAfter(3, "out.speedscope.json", func(p string) error {
		paths = append(paths, p)
		return nil
	})

	for frames := 1; frames <= 5; frames++ {
		hook(Stats{Frames: frames})
	}
	assert.Equal(t, []string{"out.speedscope.json"}, paths)
}

func TestDumpAfterErrorNotRetried(t *testing.T) {
	calls := 0
	hook := dumpAfter(1, "x", func(string) error {
		calls++
		return errors.New("disk full")
	})
	hook(Stats{Frames: 1})
	hook(Stats{Frames: 2})
	assert.Equal(t, 1, calls)
}
