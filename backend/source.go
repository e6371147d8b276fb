package backend

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"git.sr.ht/~gioverse/skel/stream"
	"github.com/felixgeelhaar/bolt/v3"
	"github.com/fsnotify/fsnotify"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

// Source loads chart documents and reloads them whenever the document or
// its data file changes on disk. Each document is a mutation keyed by its
// absolute path.
type Source struct {
	pool      *stream.MutationPool[string, Document]
	log       *bolt.Logger
	anonymous atomic.Int32
}

func NewSource(mutator *stream.Mutator, log *bolt.Logger) *Source {
	if log == nil {
		log = logging.Get()
	}
	return &Source{
		pool: stream.NewMutationPool[string, Document](mutator),
		log:  log,
	}
}

// Documents streams the set of open documents.
func (s *Source) Documents(ctx context.Context) <-chan map[string]*stream.Mutation[Document] {
	return s.pool.Stream(ctx)
}

// Open starts following the document at path. Opening a path that is
// already open returns the existing mutation.
func (s *Source) Open(path string) (*stream.Mutation[Document], string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	m, _ := stream.Mutate(s.pool, abs, func(ctx context.Context) <-chan Document {
		out := make(chan Document, 1)
		go func() {
			defer close(out)
			follow(ctx, abs, out, s.log)
		}()
		return out
	})
	return m, abs
}

// OpenFile opens a document handed over by a file picker and closes file.
// Files backed by a path on disk are followed like Open; anything else is
// loaded once.
func (s *Source) OpenFile(file io.ReadCloser) (*stream.Mutation[Document], string, error) {
	defer file.Close()
	if f, ok := file.(interface{ Name() string }); ok {
		m, key := s.Open(f.Name())
		return m, key, nil
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed reading chosen document: %w", err)
	}
	key := "picked-" + strconv.Itoa(int(s.anonymous.Add(1)))
	doc := Document{Path: key, Version: 1}
	doc.Spec, doc.DataPath, doc.Err = ParseDocument(raw, ".")
	m, _ := stream.Mutate(s.pool, key, func(ctx context.Context) <-chan Document {
		out := make(chan Document, 1)
		out <- doc
		close(out)
		return out
	})
	return m, key, nil
}

// follow emits the document at path and then a new version after every
// change to it or its data file, until ctx is done.
func follow(ctx context.Context, path string, out chan<- Document, log *bolt.Logger) {
	version := 0
	load := func() (Document, bool) {
		version++
		doc := LoadDocument(path)
		doc.Version = version
		if doc.Err != nil {
			logging.With(log.Warn(), logging.Path(path), logging.ErrorField(doc.Err)).Msg("chart document failed to load")
		} else {
			logging.With(log.Debug(), logging.Path(path)).Int("version", version).Msg("chart document loaded")
		}
		select {
		case out <- doc:
			return doc, true
		case <-ctx.Done():
			return doc, false
		}
	}
	doc, ok := load()
	if !ok {
		return
	}

	// A data file saved without a final line ending produces no further
	// events once it settles, so the held back row is picked up by a timer.
	settle := time.NewTimer(settleDelay)
	defer settle.Stop()
	if !doc.Unsettled {
		settle.Stop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.With(log.Warn(), logging.Path(path), logging.ErrorField(err)).Msg("failed creating file watcher; live reload disabled")
		<-ctx.Done()
		return
	}
	defer watcher.Close()

	// Directories are watched rather than files so that editors replacing a
	// file by rename are noticed.
	watched := map[string]bool{}
	watch := func(doc Document) {
		for _, f := range []string{doc.Path, doc.DataPath} {
			if f == "" {
				continue
			}
			dir := filepath.Dir(f)
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				logging.With(log.Warn(), logging.Path(dir), logging.ErrorField(err)).Msg("failed watching directory")
				continue
			}
			watched[dir] = true
		}
	}
	watch(doc)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if name != doc.Path && name != doc.DataPath {
				continue
			}
			settle.Stop()
			if doc, ok = load(); !ok {
				return
			}
			watch(doc)
			if doc.Unsettled {
				settle.Reset(settleDelay)
			}
		case <-settle.C:
			if doc, ok = load(); !ok {
				return
			}
			watch(doc)
			if doc.Unsettled {
				settle.Reset(settleDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("file watcher error")
		}
	}
}
