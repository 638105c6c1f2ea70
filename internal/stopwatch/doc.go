// Package stopwatch provides a start/pause/reset stopwatch counting whole
// seconds.
//
// State is a value type with pure transitions, so any event loop can drive
// it. Stopwatch owns a periodic tick source obtained from a Clock and
// guarantees the source is cancelled on pause, on reset and on Close, and
// that a new source is never started while another is live.
//
//	sw := stopwatch.New(stopwatch.RealClock{}, func(s stopwatch.State) {
//	    fmt.Printf("\r%s", s.Display())
//	})
//	defer sw.Close()
//	sw.Toggle() // start
package stopwatch
