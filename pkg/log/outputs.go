package log

import (
	"io"
	"sync"
)

// ConsoleOutput writes formatted entries to a single writer.
type ConsoleOutput struct {
	mu     sync.Mutex
	Writer io.Writer
}

// Write writes the formatted entry to the configured writer.
func (o *ConsoleOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.Writer.Write(formatted)
	return err
}

// MemoryOutput collects entries in memory. Intended for tests.
type MemoryOutput struct {
	mu      sync.Mutex
	entries []Entry
}

// Write records a copy of the entry.
func (o *MemoryOutput) Write(entry *Entry, _ []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, *entry)
	return nil
}

// Entries returns the recorded entries.
func (o *MemoryOutput) Entries() []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Entry, len(o.entries))
	copy(out, o.entries)
	return out
}
