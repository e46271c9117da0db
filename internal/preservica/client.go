// Package preservica talks to the Preservica REST API: it logs in with a
// username and password and reads information objects from the Entity API.
package preservica

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jlefonde/preservica_graphql/internal/errs"
	"github.com/jlefonde/preservica_graphql/internal/secret"
)

const accessTokenHeader = "Preservica-Access-Token"

// Token is a Preservica access token. It is requested per invocation and
// never reused.
type Token string

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds secret.Credentials) (Token, error) {
	form := url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
	}

	slog.InfoContext(ctx, "Requesting access token")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/accesstoken/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errs.New(errs.AuthTransportError, "failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.New(errs.AuthTransportError, "failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.New(errs.AuthTransportError, "failed to request access token: %s", resp.Status)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errs.New(errs.AuthDecodeError, "failed to decode access token response: %w", err)
	}
	if body.Token == "" {
		return "", errs.New(errs.AuthDecodeError, "access token response has no token")
	}
	slog.InfoContext(ctx, "Access token received")

	return Token(body.Token), nil
}

// FetchEntity returns the raw XML body describing the information object.
func (c *Client) FetchEntity(ctx context.Context, reference uuid.UUID, token Token) (string, error) {
	slog.InfoContext(ctx, "Fetching information object", "reference", reference.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/entity/information-objects/%s", c.baseURL, reference), nil)
	if err != nil {
		return "", errs.New(errs.FetchTransportError, "failed to build entity request: %w", err)
	}
	req.Header.Set(accessTokenHeader, string(token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.New(errs.FetchTransportError, "failed to fetch entity %s: %w", reference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.New(errs.FetchTransportError, "failed to fetch entity %s: %s", reference, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.New(errs.FetchTransportError, "failed to read entity %s: %w", reference, err)
	}

	return string(body), nil
}
