package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"barberpro-backend/models"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"

	NotificationBonus   = "bonus"
	NotificationVoucher = "voucher"
)

const (
	birthdayTemplate = "Happy birthday [ClientName]! We added [Points] points to your loyalty balance."
	voucherTemplate  = "[ClientName], your voucher [Code] for [Reward] is valid until [Expires]."
)

// MessageSender delivers a text message and returns the provider's id.
type MessageSender interface {
	Send(ctx context.Context, from, to, body string) (string, error)
}

// TwilioSender sends through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
}

// NewTwilioSender returns a sender using the Twilio REST client.
func NewTwilioSender(accountSid, authToken string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// Send delivers an SMS and returns the provider message SID.
func (s *TwilioSender) Send(ctx context.Context, from, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type NotifierConfig struct {
	PhoneNumber    string
	WhatsAppNumber string
}

// Notifier tells clients about loyalty events. Delivery problems are logged
// and recorded, never returned to the caller.
type Notifier struct {
	sender MessageSender
	store  NotificationStore
	cfg    NotifierConfig
	now    func() time.Time
}

// NewNotifier returns a Notifier. A nil sender only logs messages.
func NewNotifier(sender MessageSender, store NotificationStore, cfg NotifierConfig, opts ...Option) *Notifier {
	s := newSettings(opts)
	return &Notifier{sender: sender, store: store, cfg: cfg, now: s.now}
}

// Route picks WhatsApp for E.164 numbers and SMS otherwise.
func (n *Notifier) Route(phone string) (channel, from, to string) {
	if strings.HasPrefix(phone, "+") && n.cfg.WhatsAppNumber != "" {
		return ChannelWhatsApp, "whatsapp:" + n.cfg.WhatsAppNumber, "whatsapp:" + phone
	}
	return ChannelSMS, n.cfg.PhoneNumber, phone
}

// Notify sends message to the client and records the attempt. Delivery
// failures are logged, never returned.
func (n *Notifier) Notify(ctx context.Context, client models.ClientProfile, kind, message string) models.NotificationLog {
	entry := models.NotificationLog{
		ClientID: client.ID,
		Type:     kind,
		Message:  message,
		Status:   "sent",
		SentAt:   n.now(),
	}

	if client.Phone == "" {
		entry.Status = "skipped"
		entry.ErrorMessage = "client has no phone number"
	} else {
		channel, from, to := n.Route(client.Phone)
		entry.Channel = channel
		sid, err := n.send(ctx, from, to, message)
		switch {
		case err != nil:
			log.Error().Err(err).Str("client_id", client.ID.String()).Str("channel", channel).Msg("failed to send message")
			entry.Status = "failed"
			entry.ErrorMessage = err.Error()
		case sid != "":
			log.Info().Str("client_id", client.ID.String()).Str("sid", sid).Msg("message sent")
		default:
			log.Info().Str("client_id", client.ID.String()).Msg("message sent, but no SID returned")
		}
	}

	if err := n.store.SaveNotification(ctx, &entry); err != nil {
		log.Error().Err(err).Str("client_id", client.ID.String()).Msg("failed to log notification")
	}
	return entry
}

func (n *Notifier) send(ctx context.Context, from, to, body string) (string, error) {
	if n.sender == nil {
		return "", errors.New("no message sender configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return n.sender.Send(ctx, from, to, body)
}

// NotifyBonus tells the client about a birthday bonus.
func (n *Notifier) NotifyBonus(ctx context.Context, credit BonusCredit) models.NotificationLog {
	msg := strings.NewReplacer(
		"[ClientName]", credit.Client.Name,
		"[Points]", strconv.FormatInt(credit.Points, 10),
	).Replace(birthdayTemplate)
	return n.Notify(ctx, credit.Client, NotificationBonus, msg)
}

// NotifyVoucher sends the voucher code after a redemption.
func (n *Notifier) NotifyVoucher(ctx context.Context, client models.ClientProfile, v models.Voucher) models.NotificationLog {
	msg := strings.NewReplacer(
		"[ClientName]", client.Name,
		"[Code]", v.Code,
		"[Reward]", v.RewardName,
		"[Expires]", v.ExpiresAt.Format(models.BookingDateLayout),
	).Replace(voucherTemplate)
	return n.Notify(ctx, client, NotificationVoucher, msg)
}
