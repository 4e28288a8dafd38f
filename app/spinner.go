package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Spinner prints a small terminal animation while a long analysis runs.
type Spinner struct {
	message string
	w       io.Writer
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		w:       os.Stdout,
		done:    make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frames := []byte{'|', '/', '-', '\\'}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(s.w, "\r")
				return
			case <-ticker.C:
				fmt.Fprintf(s.w, "\r%s%c", s.message, frames[i%len(frames)])
			}
		}
	}()
}

func (s *Spinner) Stop() {
	close(s.done)
	s.wg.Wait()
}
