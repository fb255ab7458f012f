package telephony

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	log "github.com/sirupsen/logrus"
)

// Caller places outbound calls whose answer webhook is answerURL.
type Caller interface {
	PlaceCall(to, answerURL string) (string, error)
}

// TwilioCaller places calls through the Twilio REST API.
type TwilioCaller struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioCaller(accountSID, authToken, from string) *TwilioCaller {
	return &TwilioCaller{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (c *TwilioCaller) PlaceCall(to, answerURL string) (string, error) {
	if err := ValidateE164(to); err != nil {
		return "", err
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetUrl(answerURL)
	params.SetMethod("POST")

	resp, err := c.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("twilio create call: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.WithFields(log.Fields{"to": to, "call_sid": sid}).Info("outbound call placed")
	return sid, nil
}
