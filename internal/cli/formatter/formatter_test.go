package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestClock(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "00:00:00"},
		{-5, "00:00:00"},
		{59, "00:00:59"},
		{3600, "01:00:00"},
		{27000, "07:30:00"},
		{90061, "25:01:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clock(tt.in))
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0s"},
		{20, "20s"},
		{60, "1m"},
		{2700, "45m"},
		{3600, "1h"},
		{27000, "7h 30m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.in))
	}
}

func TestHumanTimestampFrom(t *testing.T) {
	now := testutil.FixedNow
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2h ago", HumanTimestampFrom(now.Add(-2*time.Hour), now))
	assert.Equal(t, now.Add(-48*time.Hour).Local().Format("Jan 2 15:04"), HumanTimestampFrom(now.Add(-48*time.Hour), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.SessionStatus
		contains string
	}{
		{domain.SessionActive, "On duty"},
		{domain.SessionPaused, "Paused"},
		{domain.SessionPending, "Pending review"},
		{domain.SessionApproved, "Approved"},
		{domain.SessionRejected, "Rejected"},
		{domain.SessionStatus("weird"), "weird"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Contains(t, stripANSI(StatusPill(tt.status)), tt.contains)
		})
	}
}

func TestFormatSession_Open(t *testing.T) {
	start := testutil.FixedNow
	s := testutil.NewTestSession("officer-1",
		testutil.WithClosedPause(start.Add(30*time.Minute), start.Add(45*time.Minute)),
		testutil.WithOpenPause(start.Add(2*time.Hour)),
	)

	out := stripANSI(FormatSession(s, start.Add(3*time.Hour)))
	assert.Contains(t, out, "DUTY SESSION")
	assert.Contains(t, out, "2nd Sergeant Officer officer-1")
	assert.Contains(t, out, "VTR-01")
	assert.Contains(t, out, "Paused")
	assert.Contains(t, out, "Elapsed")
	// 3h minus 15m closed pause and 1h open pause.
	assert.Contains(t, out, "01:45:00")
	assert.Contains(t, out, "2 (1h 15m) on break")
	assert.Contains(t, out, "Next: resume, finalize")
}

func TestFormatSession_Rejected(t *testing.T) {
	start := testutil.FixedNow
	s := testutil.NewTestSession("officer-1",
		testutil.WithFinishedAt(start.Add(8*time.Hour)),
		testutil.WithReview(domain.SessionRejected, domain.Reviewer{ID: "rev-1", Name: "Sgt. Costa"}, start.Add(9*time.Hour), "missing vehicle log"),
	)

	out := stripANSI(FormatSession(s, start.Add(24*time.Hour)))
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "08:00:00")
	assert.Contains(t, out, "Sgt. Costa")
	assert.Contains(t, out, "missing vehicle log")
	assert.NotContains(t, out, "Next:")
}

func TestFormatSessionTable(t *testing.T) {
	now := testutil.FixedNow.Add(time.Hour)
	assert.Contains(t, stripANSI(FormatSessionTable("History", nil, now)), "No sessions found.")

	sessions := []*domain.DutySession{
		testutil.NewTestSession("officer-1", testutil.WithSessionID("aaaaaaaa-1111")),
		testutil.NewTestSession("officer-2", testutil.WithSessionID("bbbbbbbb-2222"),
			testutil.WithFinishedAt(testutil.FixedNow.Add(30*time.Minute))),
	}
	out := stripANSI(FormatSessionTable("History", sessions, now))
	assert.Contains(t, out, "HISTORY")
	assert.Contains(t, out, "aaaaaaaa")
	assert.NotContains(t, out, "aaaaaaaa-1111")
	assert.Contains(t, out, "1h")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, "Pending review")
	assert.Contains(t, out, "TOTAL")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{StyleRed.Render("xx"), "1"}, {"y", "2"}}))
	assert.Equal(t, "A   B\n──  ─\nxx  1\ny   2\n", out)
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderColumns_RightAlignsAndFooter(t *testing.T) {
	cols := []Column{{Title: "NAME"}, {Title: "ACTIVE", Right: true}}
	rows := [][]string{{"a", "5m"}, {"bb", StyleGreen.Render("1h 30m")}}

	out := stripANSI(RenderColumns(cols, rows, []string{"TOTAL", "1h 35m"}))

	want := "NAME   ACTIVE\n" +
		"─────  ──────\n" +
		"a          5m\n" +
		"bb     1h 30m\n" +
		"─────  ──────\n" +
		"TOTAL  1h 35m\n"
	assert.Equal(t, want, out)
}

func TestRenderColumns_NoFooterOmitsSecondRule(t *testing.T) {
	out := stripANSI(RenderColumns([]Column{{Title: "N", Right: true}}, [][]string{{"12"}}, nil))
	assert.Equal(t, " N\n──\n12\n", out)
}
