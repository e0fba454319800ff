package aggregate

import (
	"sort"
	"time"

	"kpisync/internal/domain"
	"kpisync/internal/extract"
)

const latestTextLimit = 200

// Accumulate folds one channel's fetched messages into its summary row
// and the detail rows for every KPI-bearing message. The summary is
// always produced, even for zero messages; detail rows keep ascending
// timestamp order.
func Accumulate(channel domain.Channel, messages []domain.Message, syncedAt time.Time) (domain.PersonSummary, []domain.DetailRow) {
	ordered := make([]domain.Message, len(messages))
	copy(ordered, messages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	summary := domain.PersonSummary{
		Person:       channel.Person,
		ChannelName:  channel.Name,
		MessageCount: len(ordered),
		SyncedAt:     syncedAt,
	}

	var rows []domain.DetailRow
	for _, msg := range ordered {
		records := extract.Extract(msg.Text)
		if len(records) == 0 {
			continue
		}
		rows = append(rows, domain.DetailRow{
			Timestamp: msg.Timestamp,
			Text:      msg.Text,
			Records:   records,
		})
	}

	if len(ordered) > 0 {
		latest := ordered[len(ordered)-1]
		summary.LatestTimestamp = latest.Timestamp
		summary.LatestText = truncate(latest.Text, latestTextLimit)
	}

	return summary, rows
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
