package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tgvmax-weekends/internal/presenter"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// Discord rejects messages with more than 10 embeds and embed fields whose
// value exceeds 1024 characters.
const (
	maxEmbeds     = 10
	maxFieldValue = 1024
	ellipsis      = "…"
)

type WebhookMessage struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       int       `json:"color"`
	Timestamp   time.Time `json:"timestamp"`
	Fields      []Field   `json:"fields,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) SendMessage(ctx context.Context, msg WebhookMessage) error {
	if c.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook request failed with status: %d", resp.StatusCode)
	}

	return nil
}

// SendView posts the weekends of a view, one embed per weekend, in as many
// messages as Discord's embed limit requires.
func (c *Client) SendView(ctx context.Context, v presenter.View) error {
	header := fmt.Sprintf("🚄 TGVmax %s : nous sommes le %s, demain les trains pour le %s sortiront.",
		v.Route, v.TodayLabel, v.ReleaseLabel)

	if len(v.Sections) == 0 {
		return c.SendMessage(ctx, WebhookMessage{Content: header + "\nAucun train trouvé pour ce trajet."})
	}

	embeds := make([]Embed, 0, len(v.Sections))
	for _, s := range v.Sections {
		embeds = append(embeds, sectionEmbed(s))
	}

	for i := 0; i < len(embeds); i += maxEmbeds {
		end := i + maxEmbeds
		if end > len(embeds) {
			end = len(embeds)
		}
		msg := WebhookMessage{Embeds: embeds[i:end]}
		if i == 0 {
			msg.Content = header
		}
		if err := c.SendMessage(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func sectionEmbed(s presenter.Section) Embed {
	return Embed{
		Title:     s.Label,
		Color:     getColorForDirection(s),
		Timestamp: s.Reference,
		Fields: []Field{
			columnField(s.Outbound),
			columnField(s.Return),
		},
	}
}

func columnField(col presenter.Column) Field {
	f := Field{Name: col.Title, Inline: true}
	if col.Empty {
		f.Value = col.EmptyText
		return f
	}
	lines := make([]string, 0, len(col.Days))
	for _, day := range col.Days {
		lines = append(lines, fmt.Sprintf("**%s** : %s", day.Label, strings.Join(day.Times(), ", ")))
	}
	f.Value = clip(strings.Join(lines, "\n"))
	return f
}

// clip shortens a field value to maxFieldValue bytes, dropping whole lines
// when it can, and marks the cut with an ellipsis.
func clip(s string) string {
	if len(s) <= maxFieldValue {
		return s
	}
	cut := s[:maxFieldValue-len(ellipsis)-1]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		return cut[:i] + "\n" + ellipsis
	}
	for len(cut) > 0 && !utf8.RuneStart(s[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut + ellipsis
}

// Weekends with both directions available are highlighted.
func getColorForDirection(s presenter.Section) int {
	switch {
	case !s.Outbound.Empty && !s.Return.Empty:
		return 0x2CA02C // Green
	case !s.Outbound.Empty:
		return directionColor(models.Outbound)
	case !s.Return.Empty:
		return directionColor(models.Return)
	default:
		return 0x808080 // Gray
	}
}

func directionColor(d models.Direction) int {
	if d == models.Outbound {
		return 0x1F77B4 // Blue
	}
	return 0xFF7F0E // Orange
}
