package slacksrc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"kpisync/internal/domain"
	"kpisync/internal/ports"
)

// PersonChannelPrefix marks channels dedicated to one individual's KPI
// reporting (個人_名前).
const PersonChannelPrefix = "個人_"

const pageSize = 200

// Client implements ChannelLister and MessageSource over the Slack Web API.
type Client struct {
	api    *slack.Client
	logger *slog.Logger
}

var _ ports.ChannelLister = (*Client)(nil)
var _ ports.MessageSource = (*Client)(nil)

// New wires a Slack Web API client with the given bot token.
func New(botToken string, logger *slog.Logger) *Client {
	return &Client{api: slack.New(botToken), logger: logger}
}

// CheckConnection verifies the token and returns the workspace name.
func (c *Client) CheckConnection(ctx context.Context) (string, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: auth test: %v", domain.ErrSourceUnavailable, err)
	}
	return resp.Team, nil
}

// ListPersonChannels pages through every visible conversation and keeps
// only person channels, sorted by channel name.
func (c *Client) ListPersonChannels(ctx context.Context) ([]domain.Channel, error) {
	params := &slack.GetConversationsParameters{
		Types: []string{"public_channel", "private_channel"},
		Limit: pageSize,
	}

	var channels []domain.Channel
	for {
		page, cursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%w: list conversations: %v", domain.ErrSourceUnavailable, err)
		}

		for _, ch := range page {
			person, ok := PersonName(ch.Name)
			if !ok {
				continue
			}
			channels = append(channels, domain.Channel{
				ID:        ch.ID,
				Name:      ch.Name,
				Person:    person,
				IsPrivate: ch.IsPrivate,
			})
		}

		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	sort.Slice(channels, func(i, j int) bool { return channels[i].Name < channels[j].Name })
	c.debug("listed person channels", "count", len(channels))
	return channels, nil
}

// FetchMessages pages through channel history and returns messages in
// ascending timestamp order. A zero since means full backfill; limit 0
// means no cap beyond what Slack serves.
func (c *Client) FetchMessages(ctx context.Context, channel domain.Channel, since time.Time, limit int) ([]domain.Message, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channel.ID,
		Limit:     pageSize,
	}
	if limit > 0 && limit < pageSize {
		params.Limit = limit
	}
	if !since.IsZero() {
		params.Oldest = FormatTimestamp(since)
	}

	var messages []domain.Message
	for {
		resp, err := c.api.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%w: history for %s: %v", domain.ErrSourceUnavailable, channel.Name, err)
		}

		for _, raw := range resp.Messages {
			if limit > 0 && len(messages) >= limit {
				break
			}
			ts, err := ParseTimestamp(raw.Timestamp)
			if err != nil {
				c.debug("skip message with bad ts", "channel", channel.Name, "ts", raw.Timestamp)
				continue
			}
			messages = append(messages, domain.Message{
				ChannelID:   channel.ID,
				ChannelName: channel.Name,
				Author:      raw.User,
				Timestamp:   ts,
				Text:        raw.Text,
			})
		}

		cursor := resp.ResponseMetaData.NextCursor
		if cursor == "" || (limit > 0 && len(messages) >= limit) {
			break
		}
		params.Cursor = cursor
	}

	// History arrives newest-first; downstream wants ascending.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	c.debug("fetched messages", "channel", channel.Name, "count", len(messages))
	return messages, nil
}

// PersonName extracts the person from a channel name, reporting whether
// the channel follows the person-channel convention.
func PersonName(channelName string) (string, bool) {
	name, ok := strings.CutPrefix(channelName, PersonChannelPrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ParseTimestamp converts a Slack "seconds.fraction" timestamp into UTC
// time with microsecond precision.
func ParseTimestamp(ts string) (time.Time, error) {
	secPart, fracPart, _ := strings.Cut(ts, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slack ts %q: %w", ts, err)
	}

	var micros int64
	if fracPart != "" {
		padded := (fracPart + "000000")[:6]
		micros, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse slack ts %q: %w", ts, err)
		}
	}

	return time.Unix(sec, micros*1000).UTC(), nil
}

// FormatTimestamp renders a time as the Slack wire timestamp format.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
