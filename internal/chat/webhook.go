// Package chat delivers formatted report blocks through an incoming
// webhook and, for file delivery, the chat API's three-leg upload
// protocol.
package chat

import (
	"context"
	"fmt"

	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	"github.com/posaune0423/aw-analyzer/internal/report"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// Webhook posts a pre-validated block payload to an incoming webhook
// URL. It never validates blocks itself; callers run
// internal/report.Validate first and refuse to call Post on failure.
type Webhook struct {
	url  string
	http *httpclient.Client
}

// NewWebhook builds a Webhook client for the given incoming-webhook URL.
func NewWebhook(url string, client *httpclient.Client) *Webhook {
	return &Webhook{url: url, http: client}
}

type webhookPayload struct {
	Text   string         `json:"text"`
	Blocks []report.Block `json:"blocks,omitempty"`
}

// Post delivers blocks to the webhook URL, alongside a top-level text
// fallback derived from the report's header so clients that render text
// instead of blocks still show a useful summary. A non-2xx response is
// returned as an http_error carrying the status and body.
func (w *Webhook) Post(ctx context.Context, blocks []report.Block) error {
	if w.url == "" {
		return awerrors.Config("chat webhook URL is required")
	}

	text := report.SummaryText(blocks)
	if text == "" {
		text = "aw-analyzer report"
	}

	raw, status, err := w.http.PostJSON(ctx, w.url, nil, webhookPayload{Text: text, Blocks: blocks})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return awerrors.HTTP(fmt.Sprintf("webhook responded with status %d: %s", status, string(raw)), status)
	}
	return nil
}
