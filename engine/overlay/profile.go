package overlay

import (
	"github.com/hubastard/grove-overlay/engine/logging"
	"github.com/hubastard/grove-overlay/engine/profiler"
)

// DumpProfileAfter returns an AfterFrame hook that writes the recorded
// profile to path once a trampoline has drawn frames frames.
func DumpProfileAfter(frames int, path string) func(Stats) {
	return dumpAfter(frames, path, profiler.Dump)
}

func dumpAfter(frames int, path string, dump func(string) error) func(Stats) {
	done := false
	return func(s Stats) {
		if done || s.Frames < frames {
			return
		}
		done = true
		if err := dump(path); err != nil {
			logging.Thread().Warn("profile not written", "path", path, "err", err)
			return
		}
		logging.Thread().Info("profile written", "path", path, "frames", s.Frames)
	}
}
