package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// Watch emits a document each time a supported file under the root (not
// recursively) is created or written. Unreadable or empty files are logged
// and skipped. The channel is closed when ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) (<-chan domain.Document, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(l.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", l.root, err)
	}

	docs := make(chan domain.Document, 16)
	go func() {
		defer close(docs)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				doc, ok := handleEvent(event)
				if !ok {
					continue
				}
				select {
				case docs <- doc:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", l.root, err)
			}
		}
	}()

	return docs, nil
}

// handleEvent loads the file behind a create or write event.
func handleEvent(event fsnotify.Event) (domain.Document, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return domain.Document{}, false
	}
	if !Supported(event.Name) || isHidden(filepath.Base(event.Name)) {
		return domain.Document{}, false
	}

	doc, err := LoadFile(event.Name)
	if err != nil {
		logger.Debug("watch: skipping %s: %v", event.Name, err)
		return domain.Document{}, false
	}
	logger.Debug("watch: loaded %s as %s", event.Name, doc.ID)
	return doc, true
}
