package app

import "github.com/hirebridge/hirebridge/pkg/sms"

// SNSSettings converts SMSConfig to the sms package representation.
func (c SMSConfig) SNSSettings() sms.SNSSettings {
	return sms.SNSSettings{
		Enabled:  c.SNS.Enabled,
		Region:   c.SNS.Region,
		SenderID: c.SNS.SenderID,
	}
}
