package game

import (
	"sync"
	"time"
)

// tickLoop drives a step function from a single goroutine at a fixed interval.
type tickLoop struct {
	interval time.Duration

	stopChan chan struct{}  // signals the goroutine to exit
	wg       sync.WaitGroup // tracks the active goroutine
	running  bool           // true if the goroutine is running
}

func newTickLoop(interval time.Duration) *tickLoop {
	return &tickLoop{interval: interval}
}

// start launches the loop goroutine. Calling start on a running loop is a no-op.
func (l *tickLoop) start(step func()) {
	if l.running {
		return
	}

	l.stopChan = make(chan struct{})
	l.running = true

	l.wg.Add(1)
	go l.run(step)
}

// stop signals the goroutine to exit and waits for it.
// A step in flight runs to completion first.
func (l *tickLoop) stop() {
	if !l.running {
		return
	}

	close(l.stopChan)
	l.wg.Wait()
	l.running = false
}

func (l *tickLoop) run(step func()) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			// Both channels may be ready; stop wins
			select {
			case <-l.stopChan:
				return
			default:
			}
			step()
		}
	}
}
