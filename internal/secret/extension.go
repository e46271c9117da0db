package secret

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/jlefonde/preservica_graphql/internal/errs"
)

const sessionTokenHeader = "X-Aws-Parameters-Secrets-Token"

// ExtensionResolver reads the secret through the AWS Parameters and Secrets
// Lambda extension listening on localhost.
type ExtensionResolver struct {
	endpoint   string
	secretID   string
	httpClient *http.Client
	lookupEnv  func(string) (string, bool)
}

func NewExtensionResolver(extensionURL, secretID string, httpClient *http.Client) *ExtensionResolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ExtensionResolver{
		endpoint:   extensionURL + "/secretsmanager/get",
		secretID:   secretID,
		httpClient: httpClient,
		lookupEnv:  os.LookupEnv,
	}
}

func (r *ExtensionResolver) Credentials(ctx context.Context) (Credentials, error) {
	sessionToken, found := r.lookupEnv("AWS_SESSION_TOKEN")
	if !found || sessionToken == "" {
		return Credentials{}, errs.New(errs.MissingEnvironment, "failed to retrieve AWS_SESSION_TOKEN environment variable")
	}

	slog.InfoContext(ctx, "Retrieving secret", "secret_id", r.secretID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?secretId="+url.QueryEscape(r.secretID), nil)
	if err != nil {
		return Credentials{}, errs.New(errs.SecretFetchFailed, "failed to build secret request: %w", err)
	}
	req.Header.Set(sessionTokenHeader, sessionToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Credentials{}, errs.New(errs.SecretFetchFailed, "failed to get secret: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Credentials{}, errs.New(errs.SecretFetchFailed, "failed to get secret: %s", resp.Status)
	}

	var value secretValue
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return Credentials{}, errs.New(errs.SecretFetchFailed, "failed to decode secret response: %w", err)
	}
	if value.SecretString == nil {
		return Credentials{}, errs.New(errs.MalformedSecret, "secret response has no SecretString")
	}
	slog.InfoContext(ctx, "Secret retrieved successfully")

	return ParseCredentials(*value.SecretString)
}
