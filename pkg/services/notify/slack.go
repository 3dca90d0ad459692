package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

// SlackNotifier posts sweep summaries to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
}

func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func (n *SlackNotifier) Notify(ctx context.Context, summary domain.ModelInspectionReport, elapsed, avgPerJob time.Duration) error {
	text := fmt.Sprintf(
		"Inspection sweep for *%s* finished in %s (avg %s/target).\n"+
			"%d reports — success: %d, info: %d, notice: %d, warning: %d, error: %d, fatal: %d",
		summary.Class, elapsed.Round(time.Millisecond), avgPerJob.Round(time.Millisecond),
		summary.Total(),
		summary.Counts.Success, summary.Counts.Info, summary.Counts.Notice,
		summary.Counts.Warning, summary.Counts.Error, summary.Counts.Fatal,
	)

	payload, err := json.Marshal(slackMessage{Channel: n.channel, Text: text})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
