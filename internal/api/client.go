// Package api is the REST client for the mira backend: bearer-token
// injection and a single refresh-and-replay on 401.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// SessionStore is the slice of app state the client needs: read the token,
// replace the session after refresh, tear it down when refresh is exhausted.
type SessionStore interface {
	Session() *model.Session
	SetSession(*model.Session) error
	ClearSession() error
}

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	state   SessionStore
	log     *zap.Logger

	// onForcedLogout runs after a failed refresh clears the session
	// (the "forced logout" path). Optional.
	onForcedLogout func()
}

// New creates an API client for the given base URL.
func New(baseURL string, state SessionStore, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		state:   state,
		log:     log,
	}
}

// OnForcedLogout registers a callback invoked when the session is torn down
// after refresh exhaustion.
func (c *Client) OnForcedLogout(fn func()) { c.onForcedLogout = fn }

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	var res model.AuthResponse
	err := c.doOnce(ctx, http.MethodPost, "/auth/login", jsonBody(model.LoginRequest{Email: email, Password: password}), "", &res)
	if err != nil {
		if errs.IsStatus(err, http.StatusUnauthorized) {
			return nil, errs.ErrAuthenticationFailed
		}
		return nil, err
	}
	sess := &model.Session{User: res.User, AuthToken: res.Token}
	if err := c.state.SetSession(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Logout notifies the backend (best effort) and clears the session.
func (c *Client) Logout(ctx context.Context) error {
	if sess := c.state.Session(); sess != nil {
		if err := c.doOnce(ctx, http.MethodPost, "/auth/logout", nil, sess.AuthToken, nil); err != nil {
			c.log.Warn("logout request failed", zap.Error(err))
		}
	}
	return c.state.ClearSession()
}

// Do performs an authenticated JSON request. On 401 it refreshes the token
// once and replays the request; a second 401 clears the session and returns
// ErrSessionExpired with no further attempt.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	return c.doAuth(ctx, method, path, raw, "application/json", out)
}

// doAuth runs the bearer-authenticated request with the single-shot
// refresh-on-401 retry. rawBody is kept as bytes so the replay can resend it.
func (c *Client) doAuth(ctx context.Context, method, path string, rawBody []byte, contentType string, out any) error {
	sess := c.state.Session()
	if sess == nil {
		return errs.ErrNotAuthenticated
	}

	err := c.doOnce(ctx, method, path, rawReader(rawBody, contentType), sess.AuthToken, out)
	if !errs.IsStatus(err, http.StatusUnauthorized) {
		return err
	}

	refreshed, rerr := c.refresh(ctx, sess.AuthToken)
	if rerr != nil {
		c.forceLogout()
		return errs.ErrSessionExpired
	}
	err = c.doOnce(ctx, method, path, rawReader(rawBody, contentType), refreshed.AuthToken, out)
	if errs.IsStatus(err, http.StatusUnauthorized) {
		c.forceLogout()
		return errs.ErrSessionExpired
	}
	return err
}

// refresh exchanges the current token for a new one and persists the session.
func (c *Client) refresh(ctx context.Context, token string) (*model.Session, error) {
	var res model.AuthResponse
	if err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", nil, token, &res); err != nil {
		return nil, err
	}
	sess := &model.Session{User: res.User, AuthToken: res.Token}
	if err := c.state.SetSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *Client) forceLogout() {
	if err := c.state.ClearSession(); err != nil {
		c.log.Warn("clear session failed", zap.Error(err))
	}
	c.log.Info("session cleared after refresh exhaustion")
	if c.onForcedLogout != nil {
		c.onForcedLogout()
	}
}

// requestBody pairs a payload with its content type.
type requestBody struct {
	reader      io.Reader
	contentType string
}

func jsonBody(v any) *requestBody {
	raw, _ := json.Marshal(v)
	return &requestBody{reader: bytes.NewReader(raw), contentType: "application/json"}
}

func rawReader(raw []byte, contentType string) *requestBody {
	if raw == nil {
		return nil
	}
	return &requestBody{reader: bytes.NewReader(raw), contentType: contentType}
}

// doOnce performs exactly one HTTP round trip with no retry.
func (c *Client) doOnce(ctx context.Context, method, path string, body *requestBody, token string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = body.reader
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNetworkUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		herr := &errs.HTTPError{Status: res.StatusCode, Body: string(bytes.TrimSpace(msg))}
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode))
		return herr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
