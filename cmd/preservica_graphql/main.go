package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jlefonde/preservica_graphql/internal/config"
	"github.com/jlefonde/preservica_graphql/internal/graph"
	"github.com/jlefonde/preservica_graphql/internal/handler"
	"github.com/jlefonde/preservica_graphql/internal/logger"
	"github.com/jlefonde/preservica_graphql/internal/preservica"
	"github.com/jlefonde/preservica_graphql/internal/secret"
)

func newSecretResolver(ctx context.Context, cfg *config.Config) (secret.Resolver, error) {
	if cfg.SecretSource == config.SecretSourceAPI {
		r, err := secret.NewAPIResolver(ctx, cfg.SecretID)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	return secret.NewExtensionResolver(cfg.SecretsExtensionURL, cfg.SecretID, nil), nil
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	secrets, err := newSecretResolver(context.TODO(), cfg)
	if err != nil {
		log.Fatalf("failed to create secret resolver: %v", err)
	}

	client := preservica.NewClient(cfg.PreservicaURL, nil)
	schema, err := graph.NewSchema(graph.NewResolver(secrets, client, client))
	if err != nil {
		log.Fatalf("failed to parse schema: %v", err)
	}

	slog.Info("Starting handler", "preservica_url", cfg.PreservicaURL, "secret_source", cfg.SecretSource)
	lambda.Start(handler.New(schema).Handle)
}
