package parser

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// Message is one inbound block of text, e.g. a forwarded notification.
type Message struct {
	Source string
	Text   string
}

// ReadResult represents the result of reading a single message file.
type ReadResult struct {
	Index   int
	Message Message
	Error   error
}

// MessageReader loads message files concurrently while preserving order.
type MessageReader struct {
	concurrency int
}

// NewMessageReader creates a reader; concurrency below 1 means 1.
func NewMessageReader(concurrency int) *MessageReader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &MessageReader{concurrency: concurrency}
}

// ReadFile reads one message file.
func (r *MessageReader) ReadFile(path string) (Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to read message file: %s - %v", path, err))
		return Message{}, err
	}
	return Message{Source: path, Text: string(data)}, nil
}

// ReadFiles reads all files concurrently and returns messages in input order.
// The first error aborts the result.
func (r *MessageReader) ReadFiles(files []string) ([]Message, error) {
	start := time.Now()
	results := make(chan ReadResult, len(files))
	semaphore := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(idx int, f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			msg, err := r.ReadFile(f)
			results <- ReadResult{Index: idx, Message: msg, Error: err}
		}(i, file)
	}

	wg.Wait()
	close(results)

	messages := make([]Message, len(files))
	for res := range results {
		if res.Error != nil {
			return nil, fmt.Errorf("failed to read %s: %w", files[res.Index], res.Error)
		}
		messages[res.Index] = res.Message
	}

	util.LogDebug(fmt.Sprintf("Read %d message files in %v, concurrency: %d", len(files), time.Since(start), r.concurrency))
	return messages, nil
}

// ReadAll reads a single message from a stream such as stdin.
func (r *MessageReader) ReadAll(source string, in io.Reader) (Message, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return Message{Source: source, Text: string(data)}, nil
}
