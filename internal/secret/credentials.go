package secret

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/jlefonde/preservica_graphql/internal/errs"
)

// Credentials is a Preservica login, valid for a single request.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) String() string {
	return c.Username + ":********"
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("username", c.Username))
}

// Resolver returns the credentials used to log in to Preservica.
type Resolver interface {
	Credentials(ctx context.Context) (Credentials, error)
}

type secretValue struct {
	SecretString *string `json:"SecretString"`
}

// ParseCredentials decodes a secret string holding a JSON object whose key is
// the username and whose value is the password. When several keys are present
// the last one in sorted order is used.
func ParseCredentials(secretString string) (Credentials, error) {
	var raw any
	if err := json.Unmarshal([]byte(secretString), &raw); err != nil {
		return Credentials{}, errs.New(errs.MalformedSecret, "failed to parse secret string: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return Credentials{}, errs.New(errs.MalformedSecret, "secret string is not a JSON object")
	}
	if len(obj) == 0 {
		return Credentials{}, errs.New(errs.MalformedSecret, "secret string has no keys")
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	username := keys[len(keys)-1]

	password, ok := obj[username].(string)
	if !ok {
		return Credentials{}, errs.New(errs.MalformedSecret, "failed to retrieve password for '%s'", username)
	}

	return Credentials{
		Username: username,
		Password: password,
	}, nil
}
