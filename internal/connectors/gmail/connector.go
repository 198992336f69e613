package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/config"
)

type Connector struct {
	service    *gmail.Service
	filterDays int
}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GMAIL_CLIENT_ID", cfg.GmailClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_CLIENT_SECRET", cfg.GmailClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	tokenSource := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(context.Background(), option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &Connector{service: svc, filterDays: cfg.MailFilterDays}, nil
}

func (c *Connector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	query := "is:unread"
	if c.filterDays > 0 {
		query = fmt.Sprintf("is:unread newer_than:%dd", c.filterDays)
	}

	listResp, err := c.service.Users.Messages.List("me").LabelIds(label).Q(query).MaxResults(int64(max)).Do()
	if err != nil {
		return nil, err
	}

	out := make([]internal.FetchedMailMessage, 0, len(listResp.Messages))
	for _, stub := range listResp.Messages {
		full, err := c.service.Users.Messages.Get("me", stub.Id).Format("raw").Do()
		if err != nil {
			return nil, err
		}

		raw, err := decodeRaw(full.Raw)
		if err != nil {
			continue
		}

		subject, from := headerSummary(raw)
		received := time.Now().UTC().Format(time.RFC3339)
		if full.InternalDate > 0 {
			received = time.UnixMilli(full.InternalDate).UTC().Format(time.RFC3339)
		}

		out = append(out, internal.FetchedMailMessage{
			Provider:   "gmail",
			MessageID:  stub.Id,
			Subject:    subject,
			From:       from,
			ReceivedAt: received,
			Raw:        raw,
		})
	}

	return out, nil
}

func decodeRaw(encoded string) ([]byte, error) {
	if raw, err := base64.URLEncoding.DecodeString(encoded); err == nil {
		return raw, nil
	}
	return base64.RawURLEncoding.DecodeString(encoded)
}

func headerSummary(raw []byte) (subject, from string) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", ""
	}
	return msg.Header.Get("Subject"), msg.Header.Get("From")
}
