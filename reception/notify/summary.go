package notify

import (
	"fmt"
	"strings"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

const rule = "--------------------------------------------------"

// LeadEmail renders the subject and plain-text body staff receive when a
// call wraps up. The layout is fixed; the office filters on these labels.
func LeadEmail(lead contractx.Lead) (subject, body string) {
	intent := "general"
	if lead.Intent != contractx.IntentUnset {
		intent = string(lead.Intent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — Bear Team Real Estate\n", lead.CallType)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Caller Phone: %s\n", lead.CallerID)
	fmt.Fprintf(&b, "Call Time: %s\n", lead.At.Format("2006-01-02 03:04 PM")+" ET")
	fmt.Fprintf(&b, "Intent: %s\n", strings.ToUpper(intent))
	if lead.Agent != nil {
		fmt.Fprintf(&b, "Assigned Agent: %s (%s)\n", lead.Agent.Name, lead.Agent.Role)
		fmt.Fprintf(&b, "Agent Phone: %s\n", lead.Agent.Phone)
	}
	if lead.BookedSlot != nil {
		fmt.Fprintf(&b, "\nAPPOINTMENT BOOKED: %s\n", lead.BookedSlot.Format("Monday, January 02 at 03:04 PM")+" ET")
	}
	fmt.Fprintf(&b, "\nCONVERSATION:\n%s\n%s\n%s\n", rule, lead.Transcript(), rule)
	fmt.Fprintf(&b, "\nACTION: Call %s to follow up.\n", lead.CallerID)

	return fmt.Sprintf("Bear Team — %s from %s", lead.CallType, lead.CallerID), b.String()
}

// VoicemailEmail renders the voicemail notification: the call summary block
// followed by the transcribed message.
func VoicemailEmail(lead contractx.Lead) (subject, body string) {
	var b strings.Builder
	b.WriteString("New Voicemail — Bear Team Real Estate\n\n")
	fmt.Fprintf(&b, "Caller: %s\n", lead.CallerID)
	fmt.Fprintf(&b, "Time: %s\n", lead.At.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Intent: %s\n\n", lead.Intent.String())
	for i, q := range lead.Questions {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, q)
	}
	fmt.Fprintf(&b, "\nMessage: %s", lead.Voicemail)

	return fmt.Sprintf("Bear Team — Voicemail from %s", lead.CallerID), b.String()
}
