package services

import (
	"context"

	"github.com/hirebridge/hirebridge/pkg/mail"
)

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type smsRecord struct {
	To   string
	Body string
}

type fakeSMSSender struct {
	sent []smsRecord
	err  error
}

func (f *fakeSMSSender) Send(_ context.Context, phoneNumber, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, smsRecord{To: phoneNumber, Body: body})
	return nil
}

// sequenceOTP returns a generator yielding a deterministic code sequence.
func sequenceOTP(codes ...string) func() string {
	i := 0
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}
