package types

import "time"

// Channel identifies which agent produced a record set.
type Channel string

const (
	ChannelVoice Channel = "voice"
	ChannelEmail Channel = "email"
)

// ParseChannel accepts the channel names used in URLs and CLI flags.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(s) {
	case ChannelVoice, ChannelEmail:
		return Channel(s), true
	}
	return "", false
}

// Disposition is the channel-independent reading of a record's status.
type Disposition int

const (
	DispositionUnknown Disposition = iota
	DispositionHandled
	DispositionMissed
	DispositionPending
)

func (d Disposition) String() string {
	switch d {
	case DispositionHandled:
		return "handled"
	case DispositionMissed:
		return "missed"
	case DispositionPending:
		return "pending"
	}
	return "unknown"
}

// Record is what the aggregation pipeline needs from a call or an email.
type Record interface {
	RecordID() string
	OccurredAt() time.Time
	Disposition() Disposition
	StatusLabel() string
	OutcomeLabel() string
	DurationSeconds() int
	Value() float64
	Valid() bool
}

type CallStatus string

const (
	CallAnswered   CallStatus = "answered"
	CallMissed     CallStatus = "missed"
	CallInProgress CallStatus = "in-progress"
)

type CallRecord struct {
	ID             string     `json:"id"`
	Timestamp      time.Time  `json:"timestamp"`
	Status         CallStatus `json:"status"`
	Outcome        string     `json:"outcome,omitempty"`
	Duration       int        `json:"duration"`
	EstimatedValue float64    `json:"estimated_value"`
}

func (c CallRecord) RecordID() string      { return c.ID }
func (c CallRecord) OccurredAt() time.Time { return c.Timestamp }
func (c CallRecord) StatusLabel() string   { return string(c.Status) }
func (c CallRecord) OutcomeLabel() string  { return c.Outcome }
func (c CallRecord) Value() float64        { return c.EstimatedValue }

func (c CallRecord) DurationSeconds() int {
	if c.Duration < 0 {
		return 0
	}
	return c.Duration
}

func (c CallRecord) Disposition() Disposition {
	switch c.Status {
	case CallAnswered:
		return DispositionHandled
	case CallMissed:
		return DispositionMissed
	case CallInProgress:
		return DispositionPending
	}
	return DispositionUnknown
}

// Valid reports whether the record carries the fields every aggregate relies on.
func (c CallRecord) Valid() bool {
	return c.ID != "" && !c.Timestamp.IsZero() && c.Disposition() != DispositionUnknown
}

type EmailStatus string

const (
	EmailReceived    EmailStatus = "received"
	EmailAutoReplied EmailStatus = "auto-replied"
	EmailEscalated   EmailStatus = "escalated"
)

type EmailRecord struct {
	ID             string      `json:"id"`
	Timestamp      time.Time   `json:"timestamp"`
	Status         EmailStatus `json:"status"`
	Category       string      `json:"category,omitempty"`
	EstimatedValue float64     `json:"estimated_value"`
}

func (e EmailRecord) RecordID() string      { return e.ID }
func (e EmailRecord) OccurredAt() time.Time { return e.Timestamp }
func (e EmailRecord) StatusLabel() string   { return string(e.Status) }
func (e EmailRecord) OutcomeLabel() string  { return e.Category }
func (e EmailRecord) DurationSeconds() int  { return 0 }
func (e EmailRecord) Value() float64        { return e.EstimatedValue }

func (e EmailRecord) Disposition() Disposition {
	switch e.Status {
	case EmailAutoReplied:
		return DispositionHandled
	case EmailEscalated:
		return DispositionMissed
	case EmailReceived:
		return DispositionPending
	}
	return DispositionUnknown
}

func (e EmailRecord) Valid() bool {
	return e.ID != "" && !e.Timestamp.IsZero() && e.Disposition() != DispositionUnknown
}

// Partition splits records into well-formed ones and a count of the rest.
// The input slice is never modified.
func Partition[R Record](records []R) ([]R, int) {
	out := make([]R, 0, len(records))
	dropped := 0
	for _, r := range records {
		if !r.Valid() {
			dropped++
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}
