package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"go.uber.org/zap"
)

// SecretsAPI is the part of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc    SecretsAPI
	getenv func(string) string
}

// NewSecretsManagerClient creates a client from the default AWS configuration
// chain (environment variables, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewSecretsManagerClientWithAPI(secretsmanager.NewFromConfig(cfg), os.Getenv), nil
}

// NewSecretsManagerClientWithAPI creates a client on an existing API and
// environment lookup.
func NewSecretsManagerClientWithAPI(svc SecretsAPI, getenv func(string) string) *SecretsManagerClient {
	return &SecretsManagerClient{svc: svc, getenv: getenv}
}

// GetSecretString fetches the secret whose ARN is in secretArnEnvVar. When
// that variable is unset or the fetch fails, the value of fallbackEnvVar is
// used instead.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar, fallbackEnvVar string) (string, error) {
	if secretArn := c.getenv(secretArnEnvVar); secretArn != "" {
		secret, err := c.fetch(ctx, secretArn)
		if err == nil {
			logger.Info("Fetched secret from Secrets Manager", zap.String("secret_arn", secretArn))
			return secret, nil
		}
		logger.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("secret_arn", secretArn),
			zap.String("fallback_env_var", fallbackEnvVar),
			zap.Error(err),
		)
	}

	if value := c.getenv(fallbackEnvVar); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("secret not found using ARN env var '%s' or direct env var '%s'", secretArnEnvVar, fallbackEnvVar)
}

// RDSSecret is the JSON document RDS stores for managed database credentials.
type RDSSecret struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"dbname"`
}

// DSN renders the secret as a postgres connection URL.
func (s RDSSecret) DSN(sslMode string) string {
	port := s.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.Username, s.Password),
		Host:   s.Host + ":" + strconv.Itoa(port),
		Path:   "/" + s.DBName,
	}
	if sslMode != "" {
		u.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()
	}
	return u.String()
}

// DatabaseURL resolves the ledger database DSN. A secret holding an RDS
// credential document is turned into a URL; any other secret is used as-is.
func (c *SecretsManagerClient) DatabaseURL(ctx context.Context, secretArnEnvVar, fallbackEnvVar, sslMode string) (string, error) {
	value, err := c.GetSecretString(ctx, secretArnEnvVar, fallbackEnvVar)
	if err != nil {
		return "", err
	}
	var secret RDSSecret
	if json.Unmarshal([]byte(value), &secret) == nil && secret.Host != "" {
		return secret.DSN(sslMode), nil
	}
	return value, nil
}

func (c *SecretsManagerClient) fetch(ctx context.Context, secretArn string) (string, error) {
	result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretArn),
	})
	if err != nil {
		return "", err
	}
	if result.SecretString == nil || *result.SecretString == "" {
		return "", fmt.Errorf("secret %s has no string value", secretArn)
	}
	return *result.SecretString, nil
}
