package storage

import (
	"github.com/urfave/cli/v2"
)

const category = "storage"

// Flags binds the bucket settings of cfg to command-line flags and their
// environment variables.
func Flags(cfg *Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "S3 bucket results are published to (disabled when empty)",
			EnvVars:     []string{"FILTERMAKER_BUCKET"},
			Category:    category,
			Destination: &cfg.Bucket,
		},
		&cli.StringFlag{
			Name:        "prefix",
			Usage:       "key prefix inside the bucket",
			EnvVars:     []string{"FILTERMAKER_PREFIX"},
			Category:    category,
			Destination: &cfg.Prefix,
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Usage:       "custom S3 endpoint, e.g. http://localhost:9000 for MinIO",
			EnvVars:     []string{"FILTERMAKER_S3_ENDPOINT"},
			Category:    category,
			Destination: &cfg.Endpoint,
		},
		&cli.StringFlag{
			Name:        "s3-region",
			Value:       "us-east-1",
			EnvVars:     []string{"AWS_REGION"},
			Category:    category,
			Destination: &cfg.Region,
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			EnvVars:     []string{"AWS_ACCESS_KEY_ID"},
			Category:    category,
			Destination: &cfg.AccessKey,
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			EnvVars:     []string{"AWS_SECRET_ACCESS_KEY"},
			Category:    category,
			Destination: &cfg.SecretKey,
		},
	}
}
