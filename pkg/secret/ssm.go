// Package secret retrieves deploy credentials from AWS SSM Parameter
// Store.
package secret

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ssmAPI is the slice of the SSM client the store uses.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads decrypted parameters from SSM.
type ParameterStore struct {
	client ssmAPI
}

// NewParameterStore creates a ParameterStore for the given region using
// the default AWS credential chain (instance profile on the node).
func NewParameterStore(ctx context.Context, region string) (*ParameterStore, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &ParameterStore{client: ssm.NewFromConfig(cfg)}, nil
}

// GetParameter returns the decrypted value of the named parameter.
func (s *ParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %q: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("get parameter %q: empty response", name)
	}
	return *out.Parameter.Value, nil
}
