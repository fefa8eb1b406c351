// Package intent infers what a caller wants from keyword matches. It is
// deliberately dumb: case-insensitive substring checks over small fixed
// keyword sets, nothing model-driven.
package intent

import (
	"strings"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

var buyerKeywords = []string{
	"buy", "buying", "purchase", "looking for a home", "find a house",
}

var sellerKeywords = []string{
	"sell", "selling", "list", "listing", "value my home", "what is my home worth",
}

var renterKeywords = []string{
	"rent", "rental", "lease", "tenant", "apartment", "property management",
}

var goodbyeKeywords = []string{
	"bye", "goodbye", "thank you", "thanks", "that is all", "that's all",
	"no thanks", "nothing else", "have a good day",
}

var appointmentKeywords = []string{
	"appointment", "schedule", "showing", "consultation", "book", "meeting",
	"visit", "come in",
}

// Classify maps an utterance to an intent. The first matching category in
// priority order buyer > seller > renter wins and overwrites any prior
// intent; an utterance with no match leaves the current intent alone.
// Last detected wins across a call, not most frequent.
func Classify(utterance string, current contractx.Intent) contractx.Intent {
	q := strings.ToLower(utterance)
	switch {
	case containsAny(q, buyerKeywords):
		return contractx.IntentBuyer
	case containsAny(q, sellerKeywords):
		return contractx.IntentSeller
	case containsAny(q, renterKeywords):
		return contractx.IntentRenter
	default:
		return current
	}
}

// IsGoodbye reports whether the caller is wrapping up the call.
func IsGoodbye(utterance string) bool {
	return containsAny(strings.ToLower(utterance), goodbyeKeywords)
}

// MentionsAppointment reports whether any collected question asked about
// scheduling. A caller who never used a trigger word does not get a booking
// attempt, even if they confirmed a time in other words.
func MentionsAppointment(questions []string) bool {
	for _, q := range questions {
		if containsAny(strings.ToLower(q), appointmentKeywords) {
			return true
		}
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
