package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallRecord_Disposition(t *testing.T) {
	tests := []struct {
		status CallStatus
		want   Disposition
	}{
		{CallAnswered, DispositionHandled},
		{CallMissed, DispositionMissed},
		{CallInProgress, DispositionPending},
		{"voicemail", DispositionUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, CallRecord{Status: tt.status}.Disposition())
		})
	}
}

func TestEmailRecord_Disposition(t *testing.T) {
	assert.Equal(t, DispositionHandled, EmailRecord{Status: EmailAutoReplied}.Disposition())
	assert.Equal(t, DispositionMissed, EmailRecord{Status: EmailEscalated}.Disposition())
	assert.Equal(t, DispositionPending, EmailRecord{Status: EmailReceived}.Disposition())
	assert.Equal(t, "Sales", EmailRecord{Category: "Sales"}.OutcomeLabel())
}

func TestPartition_DropsMalformed(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := []CallRecord{
		{ID: "a", Timestamp: ts, Status: CallAnswered},
		{ID: "", Timestamp: ts, Status: CallAnswered},
		{ID: "c", Status: CallMissed},
		{ID: "d", Timestamp: ts, Status: "unknown"},
		{ID: "e", Timestamp: ts, Status: CallMissed},
	}
	snapshot := append([]CallRecord(nil), in...)

	valid, dropped := Partition(in)

	assert.Equal(t, 3, dropped)
	assert.Len(t, valid, 2)
	assert.Equal(t, "a", valid[0].ID)
	assert.Equal(t, "e", valid[1].ID)
	assert.Equal(t, snapshot, in, "input must not be mutated")
}

func TestCallRecord_NegativeDurationClamped(t *testing.T) {
	assert.Equal(t, 0, CallRecord{Duration: -5}.DurationSeconds())
	assert.Equal(t, 42, CallRecord{Duration: 42}.DurationSeconds())
}

func TestParseChannel(t *testing.T) {
	ch, ok := ParseChannel("voice")
	assert.True(t, ok)
	assert.Equal(t, ChannelVoice, ch)

	_, ok = ParseChannel("sms")
	assert.False(t, ok)
}
