package slacksrc

import (
	"testing"
	"time"
)

func TestPersonName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		channel string
		person  string
		ok      bool
	}{
		{"個人_田中", "田中", true},
		{"個人_suzuki", "suzuki", true},
		{"個人_", "", false},
		{"general", "", false},
		{"チーム_営業", "", false},
	}

	for _, tc := range cases {
		person, ok := PersonName(tc.channel)
		if person != tc.person || ok != tc.ok {
			t.Fatalf("PersonName(%q) = (%q, %v), want (%q, %v)", tc.channel, person, ok, tc.person, tc.ok)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	ts, err := ParseTimestamp("1755679815.000200")
	if err != nil {
		t.Fatalf("ParseTimestamp error: %v", err)
	}

	want := time.Unix(1755679815, 200*1000).UTC()
	if !ts.Equal(want) {
		t.Fatalf("unexpected time: got %v, want %v", ts, want)
	}
}

func TestParseTimestampNoFraction(t *testing.T) {
	t.Parallel()

	ts, err := ParseTimestamp("1755679815")
	if err != nil {
		t.Fatalf("ParseTimestamp error: %v", err)
	}
	if !ts.Equal(time.Unix(1755679815, 0).UTC()) {
		t.Fatalf("unexpected time: %v", ts)
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseTimestamp("not-a-ts"); err == nil {
		t.Fatalf("expected error for malformed timestamp")
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	orig := time.Unix(1755679815, 123456000).UTC()
	parsed, err := ParseTimestamp(FormatTimestamp(orig))
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	if !parsed.Equal(orig) {
		t.Fatalf("round trip mismatch: got %v, want %v", parsed, orig)
	}
}
