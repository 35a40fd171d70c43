// Package awssm resolves schema provider keys against AWS Secrets Manager.
// Register it with config.WithProvider("aws", provider) and point rules at
// secrets via their ProviderKey.
package awssm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Client captures the subset of the Secrets Manager client the provider
// uses. *secretsmanager.Client satisfies it.
type Client interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Provider fetches secret values for the config loader.
type Provider struct {
	client       Client
	versionStage *string
	versionID    *string
	jsonField    string
	callOpts     []func(*secretsmanager.Options)
}

// Option configures the provider.
type Option func(*Provider)

// WithVersionStage requests a specific version stage instead of AWSCURRENT.
func WithVersionStage(stage string) Option {
	return func(p *Provider) {
		if stage != "" {
			p.versionStage = aws.String(stage)
		}
	}
}

// WithVersionID requests a specific version ID.
func WithVersionID(id string) Option {
	return func(p *Provider) {
		if id != "" {
			p.versionID = aws.String(id)
		}
	}
}

// WithJSONField extracts a single field from JSON secret payloads, for
// secrets stored as {"username": ..., "password": ...} maps.
func WithJSONField(field string) Option {
	return func(p *Provider) {
		p.jsonField = field
	}
}

// WithClientOptions forwards Secrets Manager call options to every fetch.
func WithClientOptions(opts ...func(*secretsmanager.Options)) Option {
	return func(p *Provider) {
		p.callOpts = append(p.callOpts, opts...)
	}
}

// New constructs a Secrets Manager provider.
func New(client Client, opts ...Option) (*Provider, error) {
	if client == nil {
		return nil, errors.New("awssm: client is required")
	}
	p := &Provider{client: client}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Fetch retrieves the secret stored under key.
func (p *Provider) Fetch(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("awssm: secret id cannot be empty")
	}
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(key),
		VersionStage: p.versionStage,
		VersionId:    p.versionID,
	}
	out, err := p.client.GetSecretValue(ctx, input, p.callOpts...)
	if err != nil {
		return "", fmt.Errorf("awssm: %w", err)
	}
	payload, err := payloadString(out)
	if err != nil {
		return "", err
	}
	if p.jsonField == "" {
		return payload, nil
	}
	return extractField(payload, p.jsonField)
}

func payloadString(out *secretsmanager.GetSecretValueOutput) (string, error) {
	if out.SecretString != nil {
		return aws.ToString(out.SecretString), nil
	}
	if len(out.SecretBinary) > 0 {
		return string(out.SecretBinary), nil
	}
	return "", errors.New("awssm: secret contained no payload")
}

func extractField(payload, field string) (string, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return "", fmt.Errorf("awssm: secret is not a JSON object: %w", err)
	}
	raw, ok := data[field]
	if !ok {
		return "", fmt.Errorf("awssm: field %q not found in secret", field)
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}
	return string(raw), nil
}
