// ABOUTME: OAuth2 client-credentials token minter with expiry-aware caching
// ABOUTME: Serves concurrent conversation flows from a single cached token

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshMargin is subtracted from the token lifetime so a token is never
// handed out moments before it expires server-side.
const refreshMargin = 2 * time.Minute

// defaultTokenLifetime is assumed when the token endpoint reports no
// expiry and the token itself carries no exp claim.
const defaultTokenLifetime = 30 * time.Minute

// Minter obtains workspace tokens via the OAuth2 client-credentials flow
// and caches them until shortly before expiry. All methods are safe for
// concurrent use.
type Minter struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewMinter creates a Minter for the given workspace host and OAuth client.
// The token endpoint defaults to the workspace's /oidc/v1/token route.
func NewMinter(host, clientID, clientSecret string) *Minter {
	return &Minter{
		endpoint:     fmt.Sprintf("https://%s/oidc/v1/token", host),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default().With("component", "auth"),
		now:          time.Now,
	}
}

// Token returns a currently valid bearer token, minting a fresh one when
// the cached token is absent or within the refresh margin of expiry.
func (m *Minter) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiresAt.Add(-refreshMargin)) {
		return m.token, nil
	}

	token, expiresAt, err := m.mint(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	m.expiresAt = expiresAt
	m.logger.Debug("minted workspace token", "expires_at", expiresAt)
	return token, nil
}

// mint performs the client-credentials exchange. Must be called with mu held.
func (m *Minter) mint(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "all-apis")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", time.Time{}, fmt.Errorf("parsing token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", time.Time{}, ErrNoCredential
	}

	return parsed.AccessToken, m.expiryOf(parsed.AccessToken, parsed.ExpiresIn), nil
}

// expiryOf determines when a freshly minted token expires. It prefers the
// endpoint's expires_in, then the token's own exp claim, then a fixed
// conservative lifetime.
func (m *Minter) expiryOf(token string, expiresIn int64) time.Time {
	if expiresIn > 0 {
		return m.now().Add(time.Duration(expiresIn) * time.Second)
	}

	// Workspace tokens are JWTs; the exp claim is readable without
	// verifying the signature (we only need a refresh hint, not trust).
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	return m.now().Add(defaultTokenLifetime)
}
