package awsutils

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/rudderlabs/rudder-go-kit/config"

	"github.com/rudderlabs/metastore-builders/jsonrs"
)

type SessionConfig struct {
	Region      string
	AccessKeyID string
	AccessKey   string
	IAMRoleARN  string
	ExternalID  string
	Endpoint    string
	Service     string
	Timeout     time.Duration
}

func createRoleSessionName(serviceName string) string {
	return fmt.Sprintf("metastore-aws-%s-access", strings.ToLower(serviceName))
}

func httpClient(sessionConfig *SessionConfig) *http.Client {
	return &http.Client{
		Timeout: sessionConfig.Timeout,
	}
}

func createDefaultConfig(ctx context.Context, sessionConfig *SessionConfig) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(sessionConfig.Region),
		awsconfig.WithHTTPClient(httpClient(sessionConfig)),
	)
}

func createCredentialsForRole(ctx context.Context, sessionConfig *SessionConfig) (aws.CredentialsProvider, error) {
	hostConfig, err := createDefaultConfig(ctx, sessionConfig)
	if err != nil {
		return nil, fmt.Errorf("loading host config: %w", err)
	}
	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(hostConfig), sessionConfig.IAMRoleARN,
		func(o *stscreds.AssumeRoleOptions) {
			if sessionConfig.ExternalID != "" {
				o.ExternalID = aws.String(sessionConfig.ExternalID)
			}
			o.RoleSessionName = createRoleSessionName(sessionConfig.Service)
		})
	return aws.NewCredentialsCache(provider), nil
}

func createCredentials(ctx context.Context, sessionConfig *SessionConfig) (aws.CredentialsProvider, error) {
	if sessionConfig.IAMRoleARN != "" {
		return createCredentialsForRole(ctx, sessionConfig)
	} else if sessionConfig.AccessKey != "" && sessionConfig.AccessKeyID != "" {
		return credentials.NewStaticCredentialsProvider(sessionConfig.AccessKeyID, sessionConfig.AccessKey, ""), nil
	}
	return nil, nil
}

// CreateConfig loads an aws.Config for the session. Without a role or static
// keys the default credential chain is used.
func CreateConfig(ctx context.Context, sessionConfig *SessionConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(sessionConfig.Region),
		awsconfig.WithHTTPClient(httpClient(sessionConfig)),
	}

	creds, err := createCredentials(ctx, sessionConfig)
	if err != nil {
		return aws.Config{}, fmt.Errorf("[%s] creating credentials: %w", sessionConfig.Service, err)
	}
	if creds != nil {
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("[%s] loading aws config: %w", sessionConfig.Service, err)
	}
	if sessionConfig.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(sessionConfig.Endpoint)
	}
	return cfg, nil
}

// NewSessionConfig decodes a generic configuration (usually a map) into a
// SessionConfig.
func NewSessionConfig(destinationConfig any, timeout time.Duration, serviceName string) (*SessionConfig, error) {
	sessionConfig := SessionConfig{}

	jsonConfig, err := jsonrs.Marshal(destinationConfig)
	if err != nil {
		return nil, fmt.Errorf("[%s] Error while marshalling config :: %w", serviceName, err)
	}
	err = jsonrs.Unmarshal(jsonConfig, &sessionConfig)
	if err != nil {
		return nil, fmt.Errorf("[%s] Error while unmarshalling config :: %w", serviceName, err)
	}
	sessionConfig.Timeout = timeout
	sessionConfig.Service = serviceName
	return &sessionConfig, nil
}

// NewSessionConfigFromConfig reads the Metastore.aws.* settings.
func NewSessionConfigFromConfig(conf *config.Config, serviceName string) *SessionConfig {
	return &SessionConfig{
		Region:      conf.GetString("Metastore.aws.region", "us-east-1"),
		AccessKeyID: conf.GetString("Metastore.aws.accessKeyID", ""),
		AccessKey:   conf.GetString("Metastore.aws.accessKey", ""),
		IAMRoleARN:  conf.GetString("Metastore.aws.iamRoleARN", ""),
		ExternalID:  conf.GetString("Metastore.aws.externalID", ""),
		Endpoint:    conf.GetString("Metastore.aws.endpoint", ""),
		Service:     serviceName,
		Timeout:     conf.GetDuration("Metastore.aws.timeout", 30, time.Second),
	}
}
