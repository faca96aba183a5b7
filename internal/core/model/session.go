package model

// FileEvent represents a file system event in the inbox directory.
type FileEvent struct {
	Path      string
	Operation string
	Action    InboxAction
}

// InboxAction tells the inbox watcher what a dropped file means.
type InboxAction string

const (
	InboxMessage InboxAction = "message"
	InboxReport  InboxAction = "report"
	InboxClear   InboxAction = "clear"
)
