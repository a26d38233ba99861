package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio error codes for an unusable "from" number. In sandbox mode these
// are reported as simulated deliveries.
const (
	codeFromNotValid      = 21659
	codeInvalidFromNumber = 21212
)

// MessageCreator is the part of the Twilio REST API the notifier uses.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier sends SMS through the Twilio Messages API.
type TwilioNotifier struct {
	api     MessageCreator
	from    string
	sandbox bool
	now     func() time.Time
}

// NewTwilioNotifier builds a notifier from account credentials. With sandbox
// set, a rejected sender number yields a simulated success.
func NewTwilioNotifier(accountSID, authToken, from string, sandbox bool) *TwilioNotifier {
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioNotifier(c.Api, from, sandbox)
}

func newTwilioNotifier(api MessageCreator, from string, sandbox bool) *TwilioNotifier {
	return &TwilioNotifier{api: api, from: from, sandbox: sandbox, now: time.Now}
}

type createResult struct {
	msg *twilioApi.ApiV2010Message
	err error
}

// Notify sends message to phone. The Twilio client has no context support, so
// the call runs in its own goroutine and ctx only bounds how long we wait.
func (n *TwilioNotifier) Notify(ctx context.Context, phone, message string) (Result, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(n.from)
	params.SetBody(message)

	done := make(chan createResult, 1)
	go func() {
		msg, err := n.api.CreateMessage(params)
		done <- createResult{msg: msg, err: err}
	}()

	var res createResult
	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("send sms: %w", ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		var restErr *client.TwilioRestError
		if errors.As(res.err, &restErr) {
			if n.sandbox && (restErr.Code == codeFromNotValid || restErr.Code == codeInvalidFromNumber) {
				return simulated(n.now()), nil
			}
			return Result{}, &DeliveryError{Code: restErr.Code, Message: restErr.Message}
		}
		return Result{}, fmt.Errorf("send sms: %w", res.err)
	}

	var sid string
	if res.msg != nil && res.msg.Sid != nil {
		sid = *res.msg.Sid
	}
	return Result{Success: true, ReferenceID: sid}, nil
}

func simulated(now time.Time) Result {
	return Result{
		Success:     true,
		ReferenceID: "SIMULATED_" + strconv.FormatInt(now.UnixMilli(), 10),
		Simulated:   true,
	}
}
