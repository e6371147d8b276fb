package backend

import (
	"context"
	"time"

	"git.sr.ht/~gioverse/skel/stream"
	"github.com/felixgeelhaar/bolt/v3"
)

// WindowState is what a window needs to consume backend streams.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

// NewWindowState binds bundle to a window; invalidate must request a new
// frame of that window.
func NewWindowState(ctx context.Context, bundle Bundle, invalidate func()) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, invalidate),
	}
}

// Bundle holds the application-wide backend services.
type Bundle struct {
	Source *Source
}

// mutationGracePeriod keeps an unwatched document alive briefly so that
// reopening it does not reload from scratch.
const mutationGracePeriod = time.Second

func NewBundle(ctx context.Context, log *bolt.Logger) Bundle {
	mutator := stream.NewMutator(ctx, mutationGracePeriod)
	return Bundle{
		Source: NewSource(mutator, log),
	}
}
