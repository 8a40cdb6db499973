package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
)

// FormatSession renders one duty session as a titled box. now drives the
// advisory elapsed time of open sessions.
func FormatSession(s *domain.DutySession, now time.Time) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}

	line("Officer", officerLabel(s))
	if s.VehicleLabel != "" {
		line("Vehicle", s.VehicleLabel)
	}
	line("Status", StatusPill(s.Status))
	line("Started", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if s.FinishedAt != nil {
		line("Finished", s.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	}
	line("Pauses", pauseSummary(s, now))

	if s.TotalActiveSeconds != nil {
		line("Total", StyleBold.Render(Clock(*s.TotalActiveSeconds)))
	} else {
		line("Elapsed", StyleBold.Render(Clock(s.ActiveSecondsAt(now))))
	}

	if s.ReviewerID != "" {
		line("Reviewer", domain.CoalesceStr(s.ReviewerName, s.ReviewerID))
	}
	if s.Status == domain.SessionRejected && s.RejectionReason != "" {
		line("Reason", StyleRed.Render(s.RejectionReason))
	}

	actions := domain.AvailableActions(s.Status)
	if len(actions) > 0 {
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = string(a)
		}
		b.WriteString("\n" + Dim("Next: "+strings.Join(names, ", ")))
	}

	return RenderBox("Duty session "+shortID(s.ID), strings.TrimRight(b.String(), "\n"))
}

// FormatSessionTable renders sessions as a table inside a titled box, with
// active time right-aligned and summed in a footer.
func FormatSessionTable(title string, sessions []*domain.DutySession, now time.Time) string {
	if len(sessions) == 0 {
		return Dim("No sessions found.") + "\n"
	}

	cols := []Column{
		{Title: "ID"},
		{Title: "OFFICER"},
		{Title: "STARTED"},
		{Title: "ACTIVE", Right: true},
		{Title: "STATUS"},
	}
	rows := make([][]string, 0, len(sessions))
	var total int64
	for _, s := range sessions {
		active := s.ActiveSecondsAt(now)
		if s.TotalActiveSeconds != nil {
			active = *s.TotalActiveSeconds
		}
		total += active
		rows = append(rows, []string{
			TruncID(s.ID),
			Truncate(officerLabel(s), 32),
			HumanTimestampFrom(s.StartedAt, now),
			FormatSeconds(active),
			StatusPill(s.Status),
		})
	}
	footer := []string{"TOTAL", "", "", FormatSeconds(total), ""}
	return RenderBox(title, RenderColumns(cols, rows, footer)) + "\n"
}

func officerLabel(s *domain.DutySession) string {
	name := domain.CoalesceStr(s.DisplayName, s.ActorID)
	if s.Rank != "" {
		return s.Rank + " " + name
	}
	return name
}

func pauseSummary(s *domain.DutySession, now time.Time) string {
	if len(s.Pauses) == 0 {
		return Dim("none")
	}
	end := now
	if s.FinishedAt != nil {
		end = *s.FinishedAt
	}
	paused := domain.PausedSeconds(s.StartedAt, end, s.Pauses)
	text := fmt.Sprintf("%d (%s)", len(s.Pauses), FormatSeconds(paused))
	if s.OpenPauseIndex() >= 0 {
		text += StyleYellow.Render(" on break")
	}
	return text
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
