package secret

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/jlefonde/preservica_graphql/internal/errs"
)

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// APIResolver reads the secret straight from AWS Secrets Manager, for
// deployments without the Parameters and Secrets extension layer.
type APIResolver struct {
	secretsManager secretsManagerAPI
	secretID       string
}

func NewAPIResolver(ctx context.Context, secretID string) (*APIResolver, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return &APIResolver{
		secretsManager: secretsmanager.NewFromConfig(awsConfig),
		secretID:       secretID,
	}, nil
}

func (r *APIResolver) Credentials(ctx context.Context) (Credentials, error) {
	slog.InfoContext(ctx, "Retrieving secret", "secret_id", r.secretID)
	value, err := r.secretsManager.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(r.secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return Credentials{}, errs.New(errs.SecretFetchFailed, "failed to get secret: %w", err)
	}
	if value.SecretString == nil {
		return Credentials{}, errs.New(errs.MalformedSecret, "secret '%s' has no SecretString", r.secretID)
	}
	slog.InfoContext(ctx, "Secret retrieved successfully")

	return ParseCredentials(*value.SecretString)
}
