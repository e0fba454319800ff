package extract

import (
	"regexp"
	"sort"
	"strings"

	"kpisync/internal/domain"
)

var (
	// Label followed by an ASCII or full-width colon. The label is a run
	// of non-colon, non-whitespace characters.
	explicitExpr = regexp.MustCompile(`([^\s:：]+)[:：]`)

	// 【Label】with the value running until the next open bracket or the
	// end of the line. An unterminated 【 never matches.
	bracketExpr = regexp.MustCompile(`【([^【】\n]+)】`)

	// Fixed KPI vocabulary, optional counter suffix, optional trailing
	// quantity with unit. Half-width and full-width digits both count.
	keywordExpr = regexp.MustCompile(`(売上|契約|アポ|架電|面談|成約)[数件率]?\s*([0-9０-９][0-9０-９.．]*[%％件円人回万]*)?`)
)

type match struct {
	pos int
	rec domain.KpiRecord
}

type matcher struct {
	pattern  domain.Pattern
	explicit bool
	scan     func(line string) []match
}

// Matchers run in fixed priority order per line. A line with any explicit
// match is not re-scanned for bare keywords, so a keyword inside a
// label's value never yields a second record.
var matchers = []matcher{
	{domain.PatternExplicitLabel, true, scanExplicit},
	{domain.PatternBracketedLabel, true, scanBracket},
	{domain.PatternBareKeyword, false, scanKeyword},
}

// Extract maps one message body to zero or more KPI records, ordered by
// first match position. Pure and deterministic; lines are the scanning
// unit and multi-line values are not supported.
func Extract(text string) []domain.KpiRecord {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var all []match
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		hits := scanLine(line)
		for i := range hits {
			hits[i].pos += offset
		}
		all = append(all, hits...)
		offset += len(line) + 1
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].pos < all[j].pos })

	records := make([]domain.KpiRecord, 0, len(all))
	for _, m := range all {
		records = append(records, m.rec)
	}
	return records
}

func scanLine(line string) []match {
	var found []match
	explicitHit := false

	for _, m := range matchers {
		if !m.explicit && explicitHit {
			break
		}

		hits := m.scan(line)
		if m.explicit && len(hits) > 0 {
			explicitHit = true
		}
		for i := range hits {
			hits[i].rec.Pattern = m.pattern
		}
		found = append(found, hits...)
	}

	return found
}

func scanExplicit(line string) []match {
	locs := explicitExpr.FindAllStringSubmatchIndex(line, -1)
	var found []match
	for i, loc := range locs {
		end := len(line)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		// A bracketed label on the same line starts its own record; the
		// value must stop there or the bracket's content is counted twice.
		value := line[loc[1]:end]
		if next := strings.Index(value, "【"); next >= 0 {
			value = value[:next]
		}
		found = append(found, match{
			pos: loc[0],
			rec: domain.KpiRecord{
				Label: line[loc[2]:loc[3]],
				Value: strings.TrimSpace(value),
			},
		})
	}
	return found
}

func scanBracket(line string) []match {
	locs := bracketExpr.FindAllStringSubmatchIndex(line, -1)
	var found []match
	for _, loc := range locs {
		rest := line[loc[1]:]
		if next := strings.Index(rest, "【"); next >= 0 {
			rest = rest[:next]
		}
		found = append(found, match{
			pos: loc[0],
			rec: domain.KpiRecord{
				Label: line[loc[2]:loc[3]],
				Value: strings.TrimSpace(rest),
			},
		})
	}
	return found
}

func scanKeyword(line string) []match {
	locs := keywordExpr.FindAllStringSubmatchIndex(line, -1)
	var found []match
	for _, loc := range locs {
		value := ""
		if loc[4] >= 0 {
			value = strings.TrimSpace(line[loc[4]:loc[5]])
		}
		found = append(found, match{
			pos: loc[0],
			rec: domain.KpiRecord{
				Label: line[loc[2]:loc[3]],
				Value: value,
			},
		})
	}
	return found
}
