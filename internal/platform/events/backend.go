package events

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/config"
)

// NewPublisher returns the publisher selected by EVENTS_BACKEND.
func NewPublisher(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Publisher, error) {
	switch cfg.EventsBackend {
	case "", "log":
		return NewLogPublisher(logger), nil
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required for the kafka events backend")
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case "sqs":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return NewSQSPublisher(awsCfg, cfg.SQSQueueURL, cfg.SQSEndpoint), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
	}
}
