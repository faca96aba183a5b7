package session

// Recorder observes engine activity. The metrics package provides the
// Prometheus implementation.
type Recorder interface {
	MessageProcessed(source string, added int)
	ReportRendered(source string)
	LedgerCleared(source string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) MessageProcessed(string, int) {}
func (NopRecorder) ReportRendered(string) {}
func (NopRecorder) LedgerCleared(string) {}
