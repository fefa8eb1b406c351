// Package conversation tracks per-call state: what the caller said, what
// the assistant answered, and what the caller turned out to want.
package conversation

import (
	"time"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

// EscalationTurnLimit caps how many caller utterances the assistant fields
// before the call is handed to a human follow-up. Keeps a chatty caller
// from looping forever against a metered API.
const EscalationTurnLimit = 8

// Record is the state of one active call. Records are not safe for
// concurrent use on their own; each call id is handled by one webhook
// request at a time, and the Store guards the map they live in.
type Record struct {
	CallerID  string
	TurnCount int
	History   []contractx.Turn
	Questions []string
	Intent    contractx.Intent

	// touched is the liveness stamp the idle sweep compares against. The
	// Store owns it: after NewRecord it is read and written only under the
	// store mutex, so record mutation never races the sweeper.
	touched time.Time
}

func NewRecord(callerID string, now time.Time) *Record {
	return &Record{
		CallerID: callerID,
		touched:  now,
	}
}

// AddQuestion records a caller utterance. TurnCount and Questions move
// together; TurnCount == len(Questions) always holds.
func (r *Record) AddQuestion(text string) {
	r.TurnCount++
	r.Questions = append(r.Questions, text)
	r.History = append(r.History, contractx.Turn{Role: contractx.RoleUser, Text: text})
}

// AddReply appends an assistant turn to the history.
func (r *Record) AddReply(text string) {
	r.History = append(r.History, contractx.Turn{Role: contractx.RoleAssistant, Text: text})
}

// ShouldEscalate reports whether the turn cap has been reached.
func (r *Record) ShouldEscalate() bool {
	return r.TurnCount >= EscalationTurnLimit
}

// Lead snapshots the record for the notification dispatcher.
func (r *Record) Lead(callType string, agent *contractx.Agent, bookedSlot *time.Time, now time.Time) contractx.Lead {
	return contractx.Lead{
		CallerID:   r.CallerID,
		CallType:   callType,
		Intent:     r.Intent,
		Agent:      agent,
		BookedSlot: bookedSlot,
		Questions:  append([]string(nil), r.Questions...),
		At:         now,
	}
}
