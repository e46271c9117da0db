package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	SecretSourceExtension = "extension"
	SecretSourceAPI       = "api"

	defaultSecretID      = "sandbox-preservica-6-preservicav6login"
	defaultExtensionPort = "2773"
)

type Config struct {
	// Preservica
	PreservicaURL string

	// Secrets
	SecretID            string
	SecretSource        string // extension or api
	SecretsExtensionURL string // base URL of the Parameters and Secrets extension
}

// Load reads the process environment once. It is called at cold start, the
// resulting Config is shared read-only by every invocation.
func Load() (*Config, error) {
	preservicaURL, found := os.LookupEnv("PRESERVICA_URL")
	if !found || strings.TrimSpace(preservicaURL) == "" {
		return nil, errors.New("failed to retrieve PRESERVICA_URL environment variable")
	}

	port := getEnv("PARAMETERS_SECRETS_EXTENSION_HTTP_PORT", defaultExtensionPort)
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("invalid PARAMETERS_SECRETS_EXTENSION_HTTP_PORT '%s'", port)
	}

	source := strings.ToLower(getEnv("SECRET_SOURCE", SecretSourceExtension))
	if source != SecretSourceExtension && source != SecretSourceAPI {
		return nil, fmt.Errorf("invalid SECRET_SOURCE '%s': expected '%s' or '%s'", source, SecretSourceExtension, SecretSourceAPI)
	}

	return &Config{
		PreservicaURL:       strings.TrimRight(strings.TrimSpace(preservicaURL), "/"),
		SecretID:            getEnv("PRESERVICA_SECRET_ID", defaultSecretID),
		SecretSource:        source,
		SecretsExtensionURL: "http://localhost:" + port,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, found := os.LookupEnv(key); found && value != "" {
		return value
	}
	return fallback
}
