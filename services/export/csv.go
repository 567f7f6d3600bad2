package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"epvote-monitor/services/rollcall"
)

// the downstream analysis tooling expects semicolon-separated files
const csvSeparator = ';'

var summaryHeader = []string{
	"VoteId", "Date", "Title", "Procedure", "Leg/Non-Leg/Bud",
	"TypeOfVote", "VotingRule", "Rapporteur", "Link",
	"CommitteeResponsabile", "PolicyArea", "Subject", "FinalVote",
	"AmNo", "Author", "Vote", "Yes", "No", "Abs",
}

var matrixHeader = []string{
	"MepId", "SeatId", "Fname", "Lname", "FullName", "Activ",
	"Country", "Party", "EPG", "Start", "End",
}

// MonthDir returns the archive directory for a collection month,
// e.g. "2024/04".
func MonthDir(year int, month time.Month) string {
	return fmt.Sprintf("%d/%02d", year, int(month))
}

func SummaryPath(year int, month time.Month) string {
	return fmt.Sprintf("%s/RCVs-%d-%02d.csv", MonthDir(year, month), year, int(month))
}

func MatrixPath(year int, month time.Month) string {
	return fmt.Sprintf("%s/RCVs-%d-%02d-votes.csv", MonthDir(year, month), year, int(month))
}

// EncodeSummary renders the Votings rows as a csv file. Null columns
// (failed joins) come out as empty cells, not zeroes.
func EncodeSummary(rows []rollcall.SummaryRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = csvSeparator

	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.VoteID, 10),
			formatDate(row.Date),
			row.Title,
			row.Procedure,
			row.LegType,
			row.TypeOfVote,
			row.VotingRule,
			row.Rapporteur,
			row.Link,
			row.Committee,
			row.PolicyArea,
			row.Subject,
			formatTri(row.FinalVote),
			row.AmNo,
			row.Author,
			formatTri(row.Outcome),
			formatCount(row.Yes),
			formatCount(row.No),
			formatCount(row.Abs),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeMatrix renders the app-facing member matrix as a csv file:
// one row per roster member, metadata first, then one outcome column
// per vote id.
func EncodeMatrix(matrix rollcall.MemberMatrix) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = csvSeparator

	header := make([]string, 0, len(matrixHeader)+len(matrix.VoteIDs))
	header = append(header, matrixHeader...)
	for _, voteID := range matrix.VoteIDs {
		header = append(header, strconv.FormatInt(voteID, 10))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range matrix.Rows {
		record := make([]string, 0, len(header))
		record = append(record,
			strconv.FormatInt(row.MemberID, 10),
			row.SeatID,
			row.GivenName,
			row.FamilyName,
			row.FullName,
			formatBool(row.Active),
			row.Country,
			row.Party,
			row.Group,
			formatDate(row.TermStart),
			formatEnd(row.TermEnd),
		)
		for _, outcome := range row.Outcomes {
			record = append(record, strconv.Itoa(int(outcome)))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTri(t rollcall.Tri) string {
	switch t {
	case rollcall.TriTrue:
		return "1"
	case rollcall.TriFalse:
		return "0"
	}
	return ""
}

func formatCount(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// a closed end date is a real value; open-ended and unknown ends are
// both blank cells, like the nullable source column
func formatEnd(end rollcall.End) string {
	if end.Kind != rollcall.EndClosed {
		return ""
	}
	return formatDate(end.Date)
}
