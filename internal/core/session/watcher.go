package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

// Inbox file extensions.
const (
	MessageExt = ".txt"
	ReportExt  = ".report"
	ClearExt   = ".clear"
)

// ActionFor maps an inbox file name to its action.
func ActionFor(path string) (model.InboxAction, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case MessageExt:
		return model.InboxMessage, true
	case ReportExt:
		return model.InboxReport, true
	case ClearExt:
		return model.InboxClear, true
	default:
		return "", false
	}
}

// FileWatcher reports create, write, remove and rename events for inbox
// files in one directory.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
}

func NewFileWatcher(dir string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch inbox %s: %w", dir, err)
	}

	fw := &FileWatcher{
		watcher: watcher,
		dir:     dir,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			action, ok := ActionFor(event.Name)
			if !ok {
				continue
			}
			select {
			case fw.events <- model.FileEvent{Path: event.Name, Operation: event.Op.String(), Action: action}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Inbox watch error", util.F("error", err.Error()))
		}
	}
}

// Events is closed after Close.
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
