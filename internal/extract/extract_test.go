package extract

import (
	"reflect"
	"testing"

	"kpisync/internal/domain"
)

func TestExtractExplicitLabel(t *testing.T) {
	t.Parallel()

	records := Extract("売上：150万円")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	want := domain.KpiRecord{Label: "売上", Value: "150万円", Pattern: domain.PatternExplicitLabel}
	if records[0] != want {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestExtractBracketedLabel(t *testing.T) {
	t.Parallel()

	records := Extract("【アポ】3件")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	want := domain.KpiRecord{Label: "アポ", Value: "3件", Pattern: domain.PatternBracketedLabel}
	if records[0] != want {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestExtractBareKeyword(t *testing.T) {
	t.Parallel()

	records := Extract("今日は契約が取れました")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	want := domain.KpiRecord{Label: "契約", Value: "", Pattern: domain.PatternBareKeyword}
	if records[0] != want {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestExtractEmptyInputs(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", " \n\t ", "おはようございます"} {
		if records := Extract(text); len(records) != 0 {
			t.Fatalf("expected no records for %q, got %v", text, records)
		}
	}
}

func TestExtractMultipleLabelsOneLine(t *testing.T) {
	t.Parallel()

	records := Extract("売上: 100万円 アポ: 3件")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %v", len(records), records)
	}
	if records[0].Label != "売上" || records[0].Value != "100万円" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Label != "アポ" || records[1].Value != "3件" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestExtractExplicitSuppressesKeyword(t *testing.T) {
	t.Parallel()

	// 売上 is in the bare-keyword vocabulary; the explicit match must
	// not be double-counted by the keyword rule.
	records := Extract("売上: 150万円")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	if records[0].Pattern != domain.PatternExplicitLabel {
		t.Fatalf("unexpected pattern: %s", records[0].Pattern)
	}
}

func TestExtractLabelValueStopsAtBracket(t *testing.T) {
	t.Parallel()

	records := Extract("売上：100万円【アポ】3件")
	want := []domain.KpiRecord{
		{Label: "売上", Value: "100万円", Pattern: domain.PatternExplicitLabel},
		{Label: "アポ", Value: "3件", Pattern: domain.PatternBracketedLabel},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestExtractUnterminatedBracket(t *testing.T) {
	t.Parallel()

	records := Extract("【アポ 3件")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	want := domain.KpiRecord{Label: "アポ", Value: "3件", Pattern: domain.PatternBareKeyword}
	if records[0] != want {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestExtractKeepsFullWidthDigits(t *testing.T) {
	t.Parallel()

	records := Extract("売上：１５０万円")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	if records[0].Value != "１５０万円" {
		t.Fatalf("digits were reformatted: %q", records[0].Value)
	}
}

func TestExtractMultiLineOrdering(t *testing.T) {
	t.Parallel()

	records := Extract("アポ：5件\n架電数 30\n【面談】2件")
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %v", len(records), records)
	}

	want := []domain.KpiRecord{
		{Label: "アポ", Value: "5件", Pattern: domain.PatternExplicitLabel},
		{Label: "架電", Value: "30", Pattern: domain.PatternBareKeyword},
		{Label: "面談", Value: "2件", Pattern: domain.PatternBracketedLabel},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestExtractKeywordWithAttachedQuantity(t *testing.T) {
	t.Parallel()

	records := Extract("本日成約2件でした")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	if records[0].Label != "成約" || records[0].Value != "2件" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestExtractDeterministic(t *testing.T) {
	t.Parallel()

	text := "売上: 100万円\n【アポ】3件\n契約どうでしたか\n架電50"
	first := Extract(text)
	second := Extract(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extract is not deterministic: %v vs %v", first, second)
	}
}
