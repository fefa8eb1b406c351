package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
)

// Config covers the two ways service-account credentials reach the process:
// the JSON blob inline in an env var (hosted deploys) or a file path (local
// runs). The inline form wins when both are set.
type Config struct {
	CredentialsJSON string `envconfig:"CREDENTIALS_JSON" split_words:"true"`
	CredentialsFile string `envconfig:"CREDENTIALS_FILE" split_words:"true" default:"credentials.json"`
}

func (c Config) Configured() bool {
	return strings.TrimSpace(c.CredentialsJSON) != "" || strings.TrimSpace(c.CredentialsFile) != ""
}

// Resolve normalizes both credential sources into one JSON payload.
// Inline env payloads often carry the private key with escaped newlines;
// those are restored before the JWT config parses the PEM block.
func Resolve(cfg Config) ([]byte, error) {
	if inline := strings.TrimSpace(cfg.CredentialsJSON); inline != "" {
		var info map[string]any
		if err := json.Unmarshal([]byte(inline), &info); err != nil {
			return nil, fmt.Errorf("parse inline credentials: %w", err)
		}
		if pk, ok := info["private_key"].(string); ok {
			info["private_key"] = strings.ReplaceAll(pk, `\n`, "\n")
		}
		normalized, err := json.Marshal(info)
		if err != nil {
			return nil, fmt.Errorf("normalize inline credentials: %w", err)
		}
		return normalized, nil
	}

	path := strings.TrimSpace(cfg.CredentialsFile)
	if path == "" {
		return nil, errors.New("no google credentials configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}

// HTTPClient builds an authenticated client for the given API scopes.
func HTTPClient(ctx context.Context, cfg Config, scopes ...string) (*http.Client, error) {
	data, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	jwt, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("build jwt config: %w", err)
	}
	return jwt.Client(ctx), nil
}
