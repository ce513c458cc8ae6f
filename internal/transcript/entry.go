package transcript

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies the producer of a transcript entry.
type Source string

const (
	SourceSystem     Source = "SYSTEM"
	SourceAuditor    Source = "AUDITOR"
	SourceSimulation Source = "SIMULATION"
	SourceUser       Source = "USER"
	SourceAPIMeteo   Source = "API_METEO"
	SourceAPINWS     Source = "API_NWS"
)

// Type is the severity shown next to an entry.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeSuccess Type = "success"
)

// Entry is a single immutable line of the operator transcript.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
}

// NewEntry stamps a fresh entry with a unique id and the current time.
func NewEntry(source Source, typ Type, message string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Message:   message,
		Type:      typ,
	}
}

// Batch accumulates entries produced by one operation, in creation order.
type Batch []Entry

// Add appends a new entry to the batch.
func (b *Batch) Add(source Source, typ Type, message string) {
	*b = append(*b, NewEntry(source, typ, message))
}
