package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// ErrSMSDisabled signals that SMS delivery is disabled via configuration.
var ErrSMSDisabled = errors.New("sms: delivery disabled")

// Sender defines behaviour for delivering a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phoneNumber, body string) error
}

// SNSSettings capture the runtime configuration for the SNS-backed sender.
type SNSSettings struct {
	Enabled  bool
	Region   string
	SenderID string
}

type snsSender struct {
	cfg    SNSSettings
	client *sns.Client
}

// NewSNSSender builds a Sender publishing directly to phone numbers via AWS SNS.
// Credentials are resolved from the default AWS chain (env, shared config, IMDS).
func NewSNSSender(ctx context.Context, cfg SNSSettings) (Sender, error) {
	if !cfg.Enabled {
		return &snsSender{cfg: cfg}, nil
	}

	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errors.New("sms: region is required when enabled")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("sms: load aws config: %w", err)
	}

	return &snsSender{cfg: cfg, client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *snsSender) Send(ctx context.Context, phoneNumber, body string) error {
	if !s.cfg.Enabled {
		return ErrSMSDisabled
	}

	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return errors.New("sms: phone number is required")
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(body),
	}
	if s.cfg.SenderID != "" {
		input.MessageAttributes = senderIDAttribute(s.cfg.SenderID)
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sms: publish to %s: %w", phoneNumber, err)
	}

	return nil
}

func senderIDAttribute(senderID string) map[string]snstypes.MessageAttributeValue {
	return map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SenderID": {
			DataType:    aws.String("String"),
			StringValue: aws.String(senderID),
		},
	}
}

