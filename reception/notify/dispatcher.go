// Package notify fans call outcomes out to the staff-facing side channels:
// notification email, the tracking spreadsheet, and an optional Postgres
// archive. Every channel is best-effort; a channel failure is logged and
// the rest still run. Nothing is retried and nothing rolls back.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

// MailSender is the slice of pkg/mailer the dispatcher needs.
type MailSender interface {
	Send(subject, body string) error
}

// CallLogger is a row-oriented side channel (spreadsheet, archive DB).
type CallLogger interface {
	LogCall(ctx context.Context, lead contractx.Lead) error
}

// Dispatcher sends lead and voicemail notifications. A nil mailer or an
// empty logger list just narrows the fan-out; the dispatcher itself never
// fails a call.
type Dispatcher struct {
	mail MailSender
	logs []CallLogger
}

func NewDispatcher(mail MailSender, logs ...CallLogger) *Dispatcher {
	kept := make([]CallLogger, 0, len(logs))
	for _, l := range logs {
		if l != nil {
			kept = append(kept, l)
		}
	}
	return &Dispatcher{mail: mail, logs: kept}
}

// SendLead dispatches a wrapped-up call to all channels.
func (d *Dispatcher) SendLead(ctx context.Context, lead contractx.Lead) {
	subject, body := LeadEmail(lead)
	d.dispatch(ctx, lead, subject, body)
	log.Info().
		Str("caller", lead.CallerID).
		Str("call_type", lead.CallType).
		Str("intent", lead.Intent.String()).
		Msg("lead notification dispatched")
}

// SendVoicemail dispatches a voicemail transcription to all channels.
func (d *Dispatcher) SendVoicemail(ctx context.Context, lead contractx.Lead) {
	subject, body := VoicemailEmail(lead)
	d.dispatch(ctx, lead, subject, body)
	log.Info().Str("caller", lead.CallerID).Msg("voicemail notification dispatched")
}

func (d *Dispatcher) dispatch(ctx context.Context, lead contractx.Lead, subject, body string) {
	for _, l := range d.logs {
		if err := l.LogCall(ctx, lead); err != nil {
			log.Error().Err(err).Str("caller", lead.CallerID).Msg("call log channel failed")
		}
	}
	if d.mail == nil {
		log.Warn().Msg("email not configured, skipping notification mail")
		return
	}
	if err := d.mail.Send(subject, body); err != nil {
		log.Error().
			Err(fmt.Errorf("%w: %v", contractx.ErrMailSend, err)).
			Str("subject", subject).
			Msg("notification mail failed")
	}
}
