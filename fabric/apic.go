// Package fabric manages connections to the controller cluster and to
// individual switches.
package fabric

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// APIC is a REST client for one controller. Authentication uses the
// aaaLogin endpoint; the session cookie carries the token afterwards.
type APIC struct {
	host     string
	baseURL  string
	username string
	password string
	client   *http.Client
	logger   zerolog.Logger

	authenticated bool
}

// NewAPIC creates a client for a single controller host.
// Controllers commonly run self-signed certificates, so verification is off.
func NewAPIC(host, username, password string, timeout time.Duration, logger zerolog.Logger) *APIC {
	jar, _ := cookiejar.New(nil)
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
	}

	return &APIC{
		host:     host,
		baseURL:  "https://" + host,
		username: username,
		password: password,
		client: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: transport,
		},
		logger: logger.With().Str("apic", host).Logger(),
	}
}

// Host returns the controller address this client talks to.
func (a *APIC) Host() string {
	return a.host
}

// Authenticated reports whether a login has succeeded.
func (a *APIC) Authenticated() bool {
	return a.authenticated
}

// Login authenticates and establishes the API session.
func (a *APIC) Login(ctx context.Context) error {
	body := fmt.Sprintf(
		`{"aaaUser":{"attributes":{"name":%q,"pwd":%q}}}`,
		a.username, a.password,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/api/aaaLogin.json", bytes.NewReader([]byte(body)))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("login to %s failed: %w", a.host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response from %s: %w", a.host, err)
	}
	if resp.StatusCode != http.StatusOK {
		errText := gjson.GetBytes(payload, "imdata.0.error.attributes.text").Str
		if errText == "" {
			errText = resp.Status
		}
		return fmt.Errorf("login to %s rejected: %s", a.host, errText)
	}

	token := gjson.GetBytes(payload, "imdata.0.aaaLogin.attributes.token").Str
	if token == "" {
		return fmt.Errorf("login to %s returned no token", a.host)
	}

	a.authenticated = true
	a.logger.Info().Msg("authenticated to controller")
	return nil
}

// Get fetches a class query and returns the imdata record array.
// The path is the full API path, e.g. /api/class/fabricNode.json.
func (a *APIC) Get(ctx context.Context, path string, query map[string]string) (gjson.Result, error) {
	if !a.authenticated {
		return gjson.Result{}, fmt.Errorf("not authenticated to %s", a.host)
	}

	u := a.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("request %s on %s failed: %w", path, a.host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("request %s on %s: %s", path, a.host, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response for %s: %w", path, err)
	}

	records := gjson.GetBytes(payload, "imdata")
	if !records.Exists() {
		return gjson.Result{}, fmt.Errorf("response for %s has no imdata", path)
	}

	a.logger.Debug().Str("path", path).Int("records", int(records.Get("#").Int())).Msg("fetched class data")
	return records, nil
}

// Logout releases the API session. Errors are logged, not returned; the
// session dies with the process either way.
func (a *APIC) Logout(ctx context.Context) {
	if !a.authenticated {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/api/aaaLogout.json", nil)
	if err == nil {
		resp, err := a.client.Do(req)
		if err != nil {
			a.logger.Warn().Err(err).Msg("logout failed")
		} else {
			_ = resp.Body.Close()
		}
	}

	a.authenticated = false
	a.logger.Info().Msg("logged out from controller")
}
