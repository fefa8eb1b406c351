// Package flow is the call flow controller: it terminates the Twilio
// webhook surface, drives the greeting/listening/escalation state machine,
// and renders the TwiML the provider speaks back to the caller.
package flow

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go/twiml"

	"github.com/bearteam/frontdesk/reception/brokerage"
	contractx "github.com/bearteam/frontdesk/reception/contract"
	conversationx "github.com/bearteam/frontdesk/reception/conversation"
	intentx "github.com/bearteam/frontdesk/reception/intent"
)

const (
	ttsVoice = "Google.en-US-Neural2-F"
	language = "en-US"

	welcomeLine    = "Thank you for calling Bear Team Real Estate in Orlando! How can I help you today?"
	repromptLine   = "Sorry, I didn't catch that. Could you repeat that?"
	signoffLine    = "Thanks for calling Bear Team Real Estate! Have a great day!"
	stillThereLine = "Are you still there? If not, thanks for calling Bear Team Real Estate!"
	voicemailLine  = "Thank you! We'll call you back as soon as possible. Have a great day!"

	// gatherTimeout bounds how long a reopened gather waits for more speech
	// before the fallback line plays and the call ends.
	gatherTimeout = "8"

	// bookingHorizonDays is how far ahead the slot scan looks when a caller
	// asked about an appointment.
	bookingHorizonDays = 5
)

// Responder produces a speakable reply for the latest utterance.
type Responder interface {
	Respond(ctx context.Context, utterance string, history []contractx.Turn) (string, error)
}

// Scheduler finds and books appointment slots.
type Scheduler interface {
	OpenSlots(ctx context.Context, horizonDays int) ([]time.Time, error)
	Book(ctx context.Context, callerID string, slot time.Time, agent *contractx.Agent, intent contractx.Intent) error
}

// Notifier fans finished calls out to the staff side channels.
type Notifier interface {
	SendLead(ctx context.Context, lead contractx.Lead)
	SendVoicemail(ctx context.Context, lead contractx.Lead)
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithNow overrides the controller clock. Test hook.
func WithNow(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller orchestrates one webhook delivery at a time per call id.
type Controller struct {
	store     *conversationx.Store
	responder Responder
	scheduler Scheduler
	notifier  Notifier
	baseURL   string
	loc       *time.Location
	now       func() time.Time
}

func New(store *conversationx.Store, responder Responder, scheduler Scheduler, notifier Notifier, baseURL string, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     store,
		responder: responder,
		scheduler: scheduler,
		notifier:  notifier,
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		loc:       brokerage.Location(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Register wires the webhook surface onto the engine.
func (c *Controller) Register(r *gin.Engine) {
	r.GET("/voice", c.handleVoice)
	r.POST("/voice", c.handleVoice)
	r.POST("/process_speech", c.handleProcessSpeech)
	r.POST("/handle_voicemail", c.handleVoicemail)
	r.POST("/handle_transcription", c.handleTranscription)
	r.GET("/status", c.handleStatus)
	r.GET("/", c.handleHome)
}

// handleVoice greets the caller and opens the first speech gather. Silence
// redirects back here, so an undecided caller hears the greeting again.
func (c *Controller) handleVoice(g *gin.Context) {
	callSid := formValue(g, "CallSid")
	callerID := formValue(g, "From")
	c.store.GetOrCreate(callSid, callerID)

	respondTwiML(g,
		c.say(welcomeLine),
		&twiml.VoiceGather{
			Input:         "speech",
			Action:        c.baseURL + "/process_speech",
			SpeechTimeout: "auto",
			Language:      language,
		},
		&twiml.VoiceRedirect{Url: c.baseURL + "/voice"},
	)
}

// handleProcessSpeech is the listening/responding/escalating core: one
// transcribed utterance in, one TwiML document out.
func (c *Controller) handleProcessSpeech(g *gin.Context) {
	speech := strings.TrimSpace(g.Request.FormValue("SpeechResult"))
	callSid := formValue(g, "CallSid")
	callerID := formValue(g, "From")
	rec := c.store.GetOrCreate(callSid, callerID)

	if speech == "" {
		// Recoverable conversational event, not an error.
		respondTwiML(g,
			c.say(repromptLine),
			&twiml.VoiceRedirect{Url: c.baseURL + "/voice"},
		)
		return
	}

	now := c.now().In(c.loc)
	rec.AddQuestion(speech)
	rec.Intent = intentx.Classify(speech, rec.Intent)

	reply, err := c.responder.Respond(g.Request.Context(), speech, rec.History)
	if err != nil {
		log.Warn().Err(err).Str("call_sid", callSid).Msg("assistant degraded to fallback reply")
	}
	rec.AddReply(reply)

	if intentx.IsGoodbye(speech) || rec.ShouldEscalate() {
		c.escalate(g.Request.Context(), callSid, rec, now)
		respondTwiML(g,
			c.say(reply),
			c.say(signoffLine),
			&twiml.VoiceHangup{},
		)
		return
	}

	respondTwiML(g,
		c.say(reply),
		&twiml.VoiceGather{
			Input:         "speech",
			Action:        c.baseURL + "/process_speech",
			SpeechTimeout: "auto",
			Timeout:       gatherTimeout,
		},
		c.say(stillThereLine),
		&twiml.VoiceHangup{},
	)
}

// escalate hands the call to human follow-up: route an agent, book a slot
// when the caller ever mentioned an appointment, notify staff, evict the
// record. Side effects are attempted once; nothing compensates a partial
// failure.
func (c *Controller) escalate(ctx context.Context, callSid string, rec *conversationx.Record, now time.Time) {
	agent := brokerage.RouteAgent(rec.Intent, rec.TurnCount)

	var booked *time.Time
	if intentx.MentionsAppointment(rec.Questions) {
		slots, err := c.scheduler.OpenSlots(ctx, bookingHorizonDays)
		if err != nil {
			log.Error().Err(err).Str("call_sid", callSid).Msg("slot lookup degraded to no booking")
		}
		if len(slots) > 0 {
			slot := slots[0]
			if err := c.scheduler.Book(ctx, rec.CallerID, slot, agent, rec.Intent); err != nil {
				log.Error().Err(err).Str("call_sid", callSid).Msg("appointment booking failed")
			}
			booked = &slot
		}
	}

	c.notifier.SendLead(ctx, rec.Lead(brokerage.LeadLabel(rec.Intent), agent, booked, now))
	c.store.Delete(callSid)
}

func (c *Controller) handleVoicemail(g *gin.Context) {
	respondTwiML(g,
		c.say(voicemailLine),
		&twiml.VoiceHangup{},
	)
}

// handleTranscription fires after the provider finishes transcribing a
// voicemail. Unknown call ids are acknowledged and ignored.
func (c *Controller) handleTranscription(g *gin.Context) {
	callSid := formValue(g, "CallSid")
	transcription := g.Request.FormValue("TranscriptionText")

	if rec, ok := c.store.Get(callSid); ok {
		lead := rec.Lead("Voicemail", nil, nil, c.now().In(c.loc))
		lead.Voicemail = transcription
		c.notifier.SendVoicemail(g.Request.Context(), lead)
		c.store.Delete(callSid)
	}
	g.Status(http.StatusOK)
}

func (c *Controller) handleStatus(g *gin.Context) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "NOT SET"
	}
	g.JSON(http.StatusOK, gin.H{
		"status":    "running",
		"brokerage": brokerage.Name,
		"base_url":  baseURL,
	})
}

func (c *Controller) handleHome(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{
		"message": brokerage.Name + " — " + brokerage.City + " — AI Phone System",
	})
}

func (c *Controller) say(text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{
		Message:  text,
		Voice:    ttsVoice,
		Language: language,
	}
}

// formValue reads a provider parameter from form or query, defaulting to
// the "Unknown" sentinel rather than rejecting the request.
func formValue(g *gin.Context, key string) string {
	if v := g.Request.FormValue(key); v != "" {
		return v
	}
	return "Unknown"
}

func respondTwiML(g *gin.Context, verbs ...twiml.Element) {
	doc, err := twiml.Voice(verbs)
	if err != nil {
		log.Error().Err(err).Msg("twiml render failed")
		g.String(http.StatusInternalServerError, "twiml render failed")
		return
	}
	g.Data(http.StatusOK, "application/xml", []byte(doc))
}
