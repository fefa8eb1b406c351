// Package brokerage holds the static configuration of the office the
// receptionist answers for: identity, hours, the agent roster, routing
// rules, and the knowledge base fed to the assistant.
package brokerage

import (
	_ "embed"
	"strings"
	"time"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

const (
	Name    = "Bear Team Real Estate"
	City    = "Orlando, Florida"
	Address = "2300 S Crystal Lake Dr, Orlando, FL 32806"
	Phone   = "407-375-3321"
	Email   = "info@bearteam.com"

	Timezone = "America/New_York"

	BusinessHoursStart = 8  // 8 AM
	BusinessHoursEnd   = 17 // 5 PM
)

// BusinessDays is the set of weekdays the office takes appointments
// without advance arrangement (Sat/Sun are by appointment only).
var BusinessDays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
}

// Roster keys. Two buyer agents share the buyer pipeline.
const (
	RosterSellers = "sellers"
	RosterRentals = "rentals"
	RosterBuyers1 = "buyers1"
	RosterBuyers2 = "buyers2"
)

var Agents = map[string]*contractx.Agent{
	RosterSellers: {
		Name:  "Bethanne Baer",
		Role:  "Broker / Listing Specialist",
		Phone: "407-228-1112",
		Email: "Bethanne@bearteam.com",
	},
	RosterRentals: {
		Name:  "Owen Willis",
		Role:  "Property Manager",
		Phone: "407-228-1112",
		Email: "owen@bearteam.com",
	},
	RosterBuyers1: {
		Name:  "Lissette Dennis",
		Role:  "Buyer's Agent",
		Phone: "407-577-9924",
		Email: "lissette@bearteam.com",
	},
	RosterBuyers2: {
		Name:  "Shanelle Mitchell",
		Role:  "Buyer's Agent",
		Phone: "407-491-8811",
		Email: "shanelle@bearteam.com",
	},
}

// RouteAgent picks the follow-up agent for a wrapped-up call. Buyer leads
// alternate between the two buyer agents keyed on total turn parity, so
// consecutive buyer calls tend to spread across both.
func RouteAgent(intent contractx.Intent, turnCount int) *contractx.Agent {
	switch intent {
	case contractx.IntentSeller:
		return Agents[RosterSellers]
	case contractx.IntentRenter:
		return Agents[RosterRentals]
	case contractx.IntentBuyer:
		if turnCount%2 == 0 {
			return Agents[RosterBuyers1]
		}
		return Agents[RosterBuyers2]
	default:
		return nil
	}
}

// LeadLabel maps an intent to the subject-line label staff filter on.
func LeadLabel(intent contractx.Intent) string {
	switch intent {
	case contractx.IntentBuyer:
		return "BUYER LEAD"
	case contractx.IntentSeller:
		return "SELLER LEAD"
	case contractx.IntentRenter:
		return "RENTAL INQUIRY"
	default:
		return "NEW INQUIRY"
	}
}

// AppointmentLabel maps an intent to the calendar event type.
func AppointmentLabel(intent contractx.Intent) string {
	switch intent {
	case contractx.IntentBuyer:
		return "Buyer Consultation"
	case contractx.IntentSeller:
		return "Listing Consultation"
	case contractx.IntentRenter:
		return "Rental Inquiry"
	default:
		return "Consultation"
	}
}

var (
	//go:embed template/knowledge.txt
	knowledgeRaw string

	//go:embed template/receptionist.txt
	receptionistRaw string
)

// Knowledge returns the business knowledge base given to the assistant,
// with the office contact details spliced in so the template and the
// constants cannot drift apart.
func Knowledge() string {
	kb := strings.TrimSpace(knowledgeRaw)
	kb = strings.ReplaceAll(kb, "{{ADDRESS}}", Address)
	kb = strings.ReplaceAll(kb, "{{PHONE}}", Phone)
	kb = strings.ReplaceAll(kb, "{{EMAIL}}", Email)
	return kb
}

// SystemPrompt returns the full receptionist instruction with the
// knowledge base spliced in.
func SystemPrompt() string {
	return strings.ReplaceAll(strings.TrimSpace(receptionistRaw), "{{KNOWLEDGE}}", Knowledge())
}

// Location resolves the office timezone. Falls back to UTC if the zone
// database is unavailable rather than failing the whole process.
func Location() *time.Location {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
