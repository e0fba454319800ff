package sheetsync

import (
	"sort"
	"strconv"
	"strings"

	"kpisync/internal/domain"
)

const (
	// SummaryTable is the overview sheet, one row per channel.
	SummaryTable = "KPI概要"
	// DetailTablePrefix derives a person's detail sheet name.
	DetailTablePrefix = "詳細_"

	timeLayout = "2006-01-02 15:04:05"
	emptyCell  = "-"
)

var (
	summaryHeader = []string{"氏名", "チャンネル名", "メッセージ数", "最新メッセージ日時", "最新メッセージ内容", "同期日時"}
	detailHeader  = []string{"日時", "メッセージ内容", "抽出KPI"}
)

// TableOp is one full-replace operation against a remote table.
type TableOp struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Plan is the set of replace operations a sync run intends to apply.
// Building it is pure: same inputs, same plan.
type Plan struct {
	Summary TableOp
	Details []TableOp
}

// DetailTableName derives the deterministic detail sheet name for a person.
func DetailTableName(person string) string {
	return DetailTablePrefix + person
}

// BuildPlan turns aggregated results into a write-plan. Summary rows are
// sorted by person name; detail rows are written newest-first. Persons
// with no KPI-bearing messages get no detail op, which leaves their sheet
// untouched. When includeDetails is false only the summary op is built.
func BuildPlan(summaries []domain.PersonSummary, details map[string][]domain.DetailRow, includeDetails bool) Plan {
	ordered := make([]domain.PersonSummary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Person < ordered[j].Person
	})

	plan := Plan{Summary: TableOp{Name: SummaryTable, Header: summaryHeader}}
	for _, s := range ordered {
		plan.Summary.Rows = append(plan.Summary.Rows, summaryRow(s))
	}

	if !includeDetails {
		return plan
	}

	for _, s := range ordered {
		rows := details[s.Person]
		if len(rows) == 0 {
			continue
		}
		op := TableOp{Name: DetailTableName(s.Person), Header: detailHeader}
		for i := len(rows) - 1; i >= 0; i-- {
			op.Rows = append(op.Rows, detailRow(rows[i]))
		}
		plan.Details = append(plan.Details, op)
	}

	return plan
}

func summaryRow(s domain.PersonSummary) []string {
	latestTime := emptyCell
	latestText := emptyCell
	if !s.LatestTimestamp.IsZero() {
		latestTime = s.LatestTimestamp.Format(timeLayout)
		latestText = s.LatestText
	}
	return []string{
		s.Person,
		s.ChannelName,
		strconv.Itoa(s.MessageCount),
		latestTime,
		latestText,
		s.SyncedAt.Format(timeLayout),
	}
}

func detailRow(row domain.DetailRow) []string {
	return []string{
		row.Timestamp.Format(timeLayout),
		row.Text,
		RenderRecords(row.Records),
	}
}

// RenderRecords flattens extracted records into the human-readable
// "label: value, label: value" cell. A record without a value renders as
// its bare label.
func RenderRecords(records []domain.KpiRecord) string {
	if len(records) == 0 {
		return emptyCell
	}
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Value == "" {
			parts = append(parts, rec.Label)
			continue
		}
		parts = append(parts, rec.Label+": "+rec.Value)
	}
	return strings.Join(parts, ", ")
}
