package keepalive

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Run pings url at the given interval until ctx is cancelled. Free-tier
// hosts idle out processes that receive no traffic; the receptionist must
// stay reachable between calls.
func Run(ctx context.Context, client *http.Client, url string, interval time.Duration) {
	if url == "" {
		return
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ping(ctx, client, url)
		}
	}
}

func ping(ctx context.Context, client *http.Client, url string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Warn().Err(err).Msg("keepalive: build request")
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("keepalive: ping failed")
		return
	}
	resp.Body.Close()
	log.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("keepalive: pinged")
}
