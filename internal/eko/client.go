package eko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const (
	defaultClientTimeout = 10 * time.Second
	// Maximum response body size to read for error logging
	maxResponseBodySize = 1024

	accessTokenKey = "access_token"
	// Tokens are evicted slightly before the server-side expiry so a token
	// that is about to lapse is never handed to an outgoing request.
	tokenExpirySlack = time.Minute
)

// Credentials holds the OAuth client credentials of one tenant.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	BaseURL      string `json:"baseURL"`
}

// Client talks to one tenant's Eko platform: messaging (reply/push) and the
// workflow/library/user APIs. All requests carry a bearer token obtained via
// the client-credentials grant and cached until shortly before expiry.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	tokens     *cache.Cache
	log        zerolog.Logger
}

// NewClient creates a platform client for one tenant. A nil httpClient gets
// a default with a 10 second timeout.
func NewClient(creds Credentials, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	return &Client{
		creds:      creds,
		baseURL:    strings.TrimSuffix(creds.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cache.New(cache.NoExpiration, 5*time.Minute),
		log:        logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns the cached token or fetches a new one.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if tok, ok := c.tokens.Get(accessTokenKey); ok {
		return tok.(string), nil
	}
	return c.refreshToken(ctx)
}

// refreshToken unconditionally fetches a new token and replaces the cached
// one. This is also the single retry path after a 401.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.creds.ClientID)
	form.Set("client_secret", c.creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to POST token request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return "", errors.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}
	if tok.AccessToken == "" {
		return "", errors.New("token endpoint returned an empty access token")
	}

	ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack
	if ttl <= 0 {
		// Expiry missing or shorter than the slack; cache for the token's
		// actual life, or just long enough to serve the current burst of
		// events when the server gave no expiry at all.
		ttl = tokenExpirySlack
		if life := time.Duration(tok.ExpiresIn) * time.Second; life > 0 && life < ttl {
			ttl = life
		}
	}
	c.tokens.Set(accessTokenKey, tok.AccessToken, ttl)
	return tok.AccessToken, nil
}

// Reply sends segments back to the platform using a reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, segments []Segment) error {
	body := map[string]any{
		"replyToken": replyToken,
		"messages":   segments,
	}
	return c.postJSON(ctx, "/bot/v2/reply", body)
}

// Push sends segments to a group thread without a reply token.
func (c *Client) Push(ctx context.Context, groupID, threadID string, segments []Segment) error {
	body := map[string]any{
		"messages": segments,
	}
	path := fmt.Sprintf("/bot/v2/groups/%s/threads/%s/push", url.PathEscape(groupID), url.PathEscape(threadID))
	return c.postJSON(ctx, path, body)
}

// postJSON sends an authenticated POST. Like the GET path it refreshes the
// token and retries exactly once on 401.
func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request payload")
	}

	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.Wrapf(err, "failed to POST to %s", path)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close() //nolint:errcheck
			if _, err := c.refreshToken(ctx); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
			resp.Body.Close() //nolint:errcheck
			return errors.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(respBody))
		}
		resp.Body.Close() //nolint:errcheck
		return nil
	}
	return errors.Errorf("%s still unauthorized after token refresh", path)
}

// getJSON performs an authenticated GET and decodes the response into out.
// On the first 401 the token is refreshed and the identical request retried
// once; a second 401 is returned as an error like any other failure.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.Wrapf(err, "failed to GET %s", path)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close() //nolint:errcheck
			if _, err := c.refreshToken(ctx); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
			resp.Body.Close() //nolint:errcheck
			return errors.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(respBody))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close() //nolint:errcheck
		if err != nil {
			return errors.Wrapf(err, "failed to decode response from %s", path)
		}
		return nil
	}
	return errors.Errorf("%s still unauthorized after token refresh", path)
}
