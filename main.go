package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	configx "github.com/bearteam/frontdesk/pkg/config"
	"github.com/bearteam/frontdesk/pkg/googleauth"
	"github.com/bearteam/frontdesk/pkg/keepalive"
	llmx "github.com/bearteam/frontdesk/pkg/llm"
	logx "github.com/bearteam/frontdesk/pkg/logger"
	"github.com/bearteam/frontdesk/pkg/mailer"
	contractx "github.com/bearteam/frontdesk/reception/contract"
	conversationx "github.com/bearteam/frontdesk/reception/conversation"
	"github.com/bearteam/frontdesk/reception/flow"
	"github.com/bearteam/frontdesk/reception/notify"
	"github.com/bearteam/frontdesk/reception/responder"
	"github.com/bearteam/frontdesk/reception/schedule"
)

type AppConfig struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	BaseURL           string        `envconfig:"BASE_URL"`
	OperatorNumber    string        `envconfig:"YOUR_PHONE_NUMBER"`
	SheetID           string        `envconfig:"GOOGLE_SHEET_ID"`
	CalendarID        string        `envconfig:"GOOGLE_CALENDAR_ID"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	IdleTTL           time.Duration `envconfig:"CALL_IDLE_TTL" default:"30m"`
	KeepAliveInterval time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"10m"`
}

// TwilioConfig holds the provider credentials. Inbound webhook handling
// needs none of them; they exist so the number and operator routing are
// auditable at startup and available to provider-side configuration.
type TwilioConfig struct {
	AccountSID  string `envconfig:"ACCOUNT_SID" split_words:"true"`
	AuthToken   string `envconfig:"AUTH_TOKEN" split_words:"true"`
	PhoneNumber string `envconfig:"PHONE_NUMBER" split_words:"true"`
}

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	appCfg := configx.MustNew[AppConfig]("")
	twilioCfg := configx.MustNew[TwilioConfig]("TWILIO")
	llmCfg := configx.MustNew[llmx.Config]("OPENAI")
	mailCfg := configx.MustNew[mailer.Config]("")
	googleCfg := configx.MustNew[googleauth.Config]("GOOGLE")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := strings.TrimRight(strings.TrimSpace(appCfg.BaseURL), "/")
	if baseURL == "" {
		log.Warn().Msg("BASE_URL not set; gather callbacks will use relative paths")
	}
	if twilioCfg.PhoneNumber == "" {
		log.Warn().Msg("twilio phone number not configured")
	}

	llmClient := llmx.NewClient(*llmCfg)
	if llmClient == nil {
		log.Warn().Msg("no llm api key; assistant replies degrade to canned fallback")
	}
	respond := responder.New(llmClient, llmCfg.Model, llmCfg.MaxOutputTokens)

	var sched flow.Scheduler = noopScheduler{}
	if googleCfg.Configured() && appCfg.CalendarID != "" {
		httpc, err := googleauth.HTTPClient(ctx, *googleCfg, calendar.CalendarScope)
		if err != nil {
			log.Error().Err(err).Msg("calendar auth failed; scheduling disabled")
		} else {
			svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpc))
			if err != nil {
				log.Error().Err(err).Msg("calendar service init failed; scheduling disabled")
			} else {
				sched = schedule.New(svc, appCfg.CalendarID, schedule.OfficeHours())
			}
		}
	} else {
		log.Warn().Msg("calendar not configured; appointment booking disabled")
	}

	var channels []notify.CallLogger
	if googleCfg.Configured() && appCfg.SheetID != "" {
		httpc, err := googleauth.HTTPClient(ctx, *googleCfg, sheets.SpreadsheetsScope)
		if err != nil {
			log.Error().Err(err).Msg("sheets auth failed; spreadsheet logging disabled")
		} else {
			svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpc))
			if err != nil {
				log.Error().Err(err).Msg("sheets service init failed; spreadsheet logging disabled")
			} else {
				channels = append(channels, notify.NewSheetLog(svc, appCfg.SheetID))
			}
		}
	}
	if appCfg.DatabaseURL != "" {
		archive := notify.NewCallArchive(appCfg.DatabaseURL)
		if err := archive.EnsureSchema(ctx); err != nil {
			log.Error().Err(err).Msg("call archive schema init failed")
		}
		defer archive.Close()
		channels = append(channels, archive)
	}

	var mail notify.MailSender
	if mailCfg.Configured() {
		m, err := mailer.New(*mailCfg)
		if err != nil {
			log.Error().Err(err).Msg("mailer init failed; email notifications disabled")
		} else {
			mail = m
		}
	} else {
		log.Warn().Msg("email not configured; lead notifications go to logs and sheet only")
	}
	dispatcher := notify.NewDispatcher(mail, channels...)

	store := conversationx.NewStore(conversationx.WithIdleTTL(appCfg.IdleTTL))
	go store.StartSweeper(ctx)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	flow.New(store, respond, sched, dispatcher, baseURL).Register(engine)

	if baseURL != "" {
		go keepalive.Run(ctx, nil, baseURL+"/status", appCfg.KeepAliveInterval)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", appCfg.Port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Int("port", appCfg.Port).Str("base_url", baseURL).Msg("phone receptionist listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// noopScheduler stands in when no calendar is configured: no open slots,
// bookings silently refused. Mirrors the graceful degradation everywhere
// else in the call flow.
type noopScheduler struct{}

func (noopScheduler) OpenSlots(context.Context, int) ([]time.Time, error) {
	return nil, nil
}

func (noopScheduler) Book(context.Context, string, time.Time, *contractx.Agent, contractx.Intent) error {
	return nil
}
