package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Placeholder credentials used when running under APP_ENV=test with an
// incomplete environment, so test runs never need real AWS access.
const (
	TestAccessKeyID     = "test-access-key"
	TestSecretAccessKey = "test-secret-key"
	TestBucket          = "test-bucket"
)

// AWSConfig holds the S3 credentials and bucket settings read from the environment.
type AWSConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Env             string
}

// IsTest reports whether the configuration was loaded under APP_ENV=test.
func (c AWSConfig) IsTest() bool { return c.Env == EnvTest }

// LoadAWS reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION,
// AWS_S3_BUCKET_NAME and APP_ENV. Region defaults to us-east-1 and APP_ENV
// to development. Missing required values are an error, except under
// APP_ENV=test where fixed placeholder values are substituted instead.
func LoadAWS() (AWSConfig, error) {
	cfg := AWSConfig{
		AccessKeyID:     strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),
		Region:          strings.TrimSpace(os.Getenv("AWS_REGION")),
		Bucket:          strings.TrimSpace(os.Getenv("AWS_S3_BUCKET_NAME")),
		Env:             parseEnv(os.Getenv("APP_ENV")),
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var missing []string
	if cfg.AccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if cfg.SecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if cfg.Bucket == "" {
		missing = append(missing, "AWS_S3_BUCKET_NAME")
	}
	if len(missing) == 0 {
		return cfg, nil
	}

	if cfg.Env == EnvTest {
		if cfg.AccessKeyID == "" {
			cfg.AccessKeyID = TestAccessKeyID
		}
		if cfg.SecretAccessKey == "" {
			cfg.SecretAccessKey = TestSecretAccessKey
		}
		if cfg.Bucket == "" {
			cfg.Bucket = TestBucket
		}
		return cfg, nil
	}

	return AWSConfig{}, fmt.Errorf("environment validation failed, missing: %s", strings.Join(missing, ", "))
}

func parseEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case EnvTest:
		return EnvTest
	case EnvProduction:
		return EnvProduction
	default:
		return EnvDevelopment
	}
}
