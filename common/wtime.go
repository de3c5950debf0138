package common

import (
	"os"
	"time"
)

// Timer slots used by the benchmarks.
const (
	T_INIT = iota
	T_BENCH
	T_CONJ_GRAD
	T_LAST
)

// TimerNames are the section labels printed in the timer breakdown.
var TimerNames = [T_LAST]string{"init", "benchmk", "conjgd"}

// TimerFlag is the sentinel file whose presence enables the section timers.
const TimerFlag = "timer.flag"

// Timers is a small table of accumulating wall clock timers.
type Timers struct {
	start   [T_LAST]time.Time
	elapsed [T_LAST]time.Duration
}

// TimerClear resets timer n.
func (t *Timers) TimerClear(n int) {
	t.elapsed[n] = 0
}

// TimerStart marks the beginning of an interval on timer n.
func (t *Timers) TimerStart(n int) {
	t.start[n] = time.Now()
}

// TimerStop adds the interval since the matching TimerStart to timer n.
func (t *Timers) TimerStop(n int) {
	t.elapsed[n] += time.Since(t.start[n])
}

// TimerRead returns the accumulated seconds of timer n.
func (t *Timers) TimerRead(n int) float64 {
	return t.elapsed[n].Seconds()
}

// TimerReadNs returns the accumulated nanoseconds of timer n.
func (t *Timers) TimerReadNs(n int) int64 {
	return t.elapsed[n].Nanoseconds()
}

// TimerFlagPresent reports whether the timer sentinel file exists in dir.
func TimerFlagPresent(dir string) bool {
	path := TimerFlag
	if dir != "" {
		path = dir + string(os.PathSeparator) + TimerFlag
	}
	_, err := os.Stat(path)
	return err == nil
}
