package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/desertthunder/setlistr/internal/tasks"
)

// FormatUpdate renders one progress update as a single line without a trailing newline.
func FormatUpdate(u tasks.ProgressUpdate) string {
	switch {
	case u.Failed:
		return "   " + Warn(u.Message)
	case u.Phase == tasks.Complete:
		return OK(u.Message)
	case u.Phase == tasks.SearchTracks && u.Step > 0:
		return "   " + Help(u.Message)
	case u.Phase == tasks.Authorize, u.Phase == tasks.SearchSetlists, u.Phase == tasks.CreatePlaylist:
		return Title(u.Message)
	default:
		return u.Message
	}
}

// Watch starts printing updates sent on the returned channel to w.
//
// The stop function closes the channel and waits until every buffered update has been written.
func Watch(w io.Writer, buffer int) (chan<- tasks.ProgressUpdate, func()) {
	updates := make(chan tasks.ProgressUpdate, buffer)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for u := range updates {
			fmt.Fprintln(w, FormatUpdate(u))
		}
	}()

	var once sync.Once
	return updates, func() {
		once.Do(func() {
			close(updates)
			<-done
		})
	}
}
