package contract

import "time"

// Intent is the classified purpose of a caller. The zero value means no
// intent keyword has matched yet.
type Intent string

const (
	IntentUnset  Intent = ""
	IntentBuyer  Intent = "buyer"
	IntentSeller Intent = "seller"
	IntentRenter Intent = "renter"
)

func (i Intent) String() string {
	if i == IntentUnset {
		return "Unknown"
	}
	return string(i)
}

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a call, ordered oldest first.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Agent is one member of the brokerage roster.
type Agent struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Lead is the snapshot handed to the notification dispatcher when a call
// wraps up. It carries everything the channels need so the dispatcher
// never reaches back into live conversation state.
type Lead struct {
	CallerID   string
	CallType   string // "BUYER LEAD", "SELLER LEAD", "RENTAL INQUIRY", "NEW INQUIRY", "Voicemail"
	Intent     Intent
	Agent      *Agent
	BookedSlot *time.Time
	Questions  []string
	Voicemail  string
	At         time.Time
}

// Transcript joins the caller's questions, one per line, in call order.
func (l Lead) Transcript() string {
	out := ""
	for i, q := range l.Questions {
		if i > 0 {
			out += "\n"
		}
		out += q
	}
	return out
}
