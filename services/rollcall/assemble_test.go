package rollcall

import (
	"testing"
	"time"

	"epvote-monitor/lib/scrapers/europarl"
	"epvote-monitor/lib/scrapers/hemicycle"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func TestBuildVotingSummaryJoin(t *testing.T) {
	minutes := []europarl.MinutesVote{
		{
			VotingID:         165001,
			VoteTitle:        "Mobilisation of the adjustment fund",
			VoteLabel:        "Report: Jane Doe (A9-0001/2024)",
			Committee:        "Committee: Committee on Budgets",
			VotingTitle:      "Single vote",
			AmendmentSubject: "Paragraph 4",
			AmendmentNumber:  "1",
			AmendmentAuthor:  "The Left",
			FinalVote:        true,
		},
	}
	decisions := []europarl.Decision{
		{
			VotingID:        165001,
			Date:            day(2024, time.April, 10),
			Outcome:         "ADOPTED",
			VotesFavor:      int64p(400),
			VotesAgainst:    int64p(150),
			VotesAbstention: int64p(30),
		},
	}
	roster := []europarl.Member{
		{ID: 124810, GivenName: "Jane", FamilyName: "DOE", FullName: "Jane DOE"},
	}

	rows := BuildVotingSummary(minutes, decisions, roster)
	require.Len(t, rows, 1)

	want := SummaryRow{
		VoteID:          165001,
		Date:            day(2024, time.April, 10),
		Title:           "Mobilisation of the adjustment fund",
		LegType:         "Bud",
		TypeOfVote:      "Single vote",
		VotingRule:      "s",
		Rapporteur:      "Jane Doe",
		RapporteurMepID: 124810,
		Link:            "https://www.europarl.europa.eu/doceo/document/A-9-2024-0001_EN.html",
		Committee:       "Committee on Budgets",
		PolicyArea:      "Budgets",
		Subject:         "Paragraph 4",
		FinalVote:       TriTrue,
		AmNo:            "1",
		Author:          "The Left",
		Outcome:         TriTrue,
		Yes:             int64p(400),
		No:              int64p(150),
		Abs:             int64p(30),
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Fatalf("summary row mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildVotingSummaryMissingDecision(t *testing.T) {
	minutes := []europarl.MinutesVote{
		{VotingID: 165002, VoteTitle: "Some resolution", FinalVote: true},
	}

	rows := BuildVotingSummary(minutes, nil, nil)
	require.Len(t, rows, 1, "a failed join must never drop the minutes row")

	row := rows[0]
	require.Equal(t, int64(165002), row.VoteID)
	require.True(t, row.Date.IsZero())
	require.Equal(t, TriUnknown, row.Outcome)
	require.Nil(t, row.Yes)
	require.Nil(t, row.No)
	require.Nil(t, row.Abs)
	require.Equal(t, "Non-Leg", row.LegType)
}

func TestExtractProcedureAndLegType(t *testing.T) {
	require.Equal(t, "***I", extractProcedure("Single market emergency instrument ***I"))
	require.Equal(t, "", extractProcedure("Budget for 2025"))

	require.Equal(t, "Leg", legType("***I", "whatever", ""))
	require.Equal(t, "Bud", legType("", "Budget for 2025", ""))
	require.Equal(t, "Bud", legType("", "Discharge 2022", "Committee on Budgetary Control"))
	require.Equal(t, "Non-Leg", legType("", "Human rights resolution", "Committee on Foreign Affairs"))
}

func TestExtractRapporteur(t *testing.T) {
	require.Equal(t, "Jane Doe", ExtractRapporteur("Report: Jane Doe (A9-0001/2024)"))
	require.Equal(t, "", ExtractRapporteur("Jane Doe (A9-0001/2024)"), "missing prefix")
	require.Equal(t, "", ExtractRapporteur("Report: Jane Doe"), "missing parenthesis")
	require.Equal(t, "", ExtractRapporteur(""))
}

func TestDocumentLink(t *testing.T) {
	require.Equal(t,
		"https://www.europarl.europa.eu/doceo/document/A-9-2024-0001_EN.html",
		DocumentLink("Report: Jane Doe (A9-0001/2024)"),
	)
	require.Equal(t,
		"https://www.europarl.europa.eu/doceo/document/B-9-2021-0412_EN.html",
		DocumentLink("Motion B9-0412/2021"),
	)
	require.Equal(t, "", DocumentLink("no reference here"))
	require.Equal(t, "", DocumentLink(""))
}

func ballotFixture() ([]europarl.Member, []europarl.Decision, []europarl.Attendance, *Index) {
	roster := []europarl.Member{
		{ID: 1001, FullName: "Jane DOE"},
		{ID: 1002, FullName: "John ROE"},
		{ID: 1003, FullName: "Gone AWAY"},
	}
	decisions := []europarl.Decision{
		{
			VotingID:   165001,
			Date:       day(2022, time.June, 1),
			VoterFavor: []int64{1001},
		},
	}
	attendance := []europarl.Attendance{
		{Date: day(2022, time.June, 1), Excused: nil, Participants: nil},
	}

	rows := []europarl.MembershipRow{
		{MemberID: 1001, OrgID: "org/ep-9", StartDate: "2019-07-02", Citizenship: "DEU"},
		{MemberID: 1002, OrgID: "org/ep-9", StartDate: "2019-07-02", Citizenship: "FRA"},
		// term seat ended before the sitting
		{MemberID: 1003, OrgID: "org/ep-9", StartDate: "2019-07-02", EndDate: "2022-01-01", Citizenship: "ITA"},
	}
	return roster, decisions, attendance, BuildIndex(rows, testOrgs)
}

func TestBuildBallots(t *testing.T) {
	roster, decisions, attendance, idx := ballotFixture()

	rows := BuildBallots(roster, decisions, attendance, idx, "org/ep-9")
	require.Len(t, rows, 3, "full roster scope, not just listed voters")

	byMember := map[int64]Outcome{}
	for _, r := range rows {
		require.Equal(t, int64(165001), r.VoteID)
		byMember[r.MemberID] = r.Outcome
	}

	require.Equal(t, OutcomeFavor, byMember[1001])
	require.Equal(t, OutcomeParticipant, byMember[1002], "seated, no signal")
	require.Equal(t, OutcomeNotMember, byMember[1003], "term ended before the sitting")
}

func TestBuildMemberMatrix(t *testing.T) {
	roster, decisions, attendance, idx := ballotFixture()
	seats := hemicycle.SeatMap{1001: "seat-001"}

	matrix, err := BuildMemberMatrix(roster, seats, decisions, attendance, idx, "org/ep-9", day(2022, time.June, 1))
	require.NoError(t, err)

	require.Equal(t, []int64{165001}, matrix.VoteIDs)
	require.Len(t, matrix.Rows, 3)

	jane := matrix.Rows[0]
	require.Equal(t, "seat-001", jane.SeatID)
	require.True(t, jane.Active)
	require.Equal(t, "Germany", jane.Country)
	require.Equal(t, []Outcome{OutcomeFavor}, jane.Outcomes)

	gone := matrix.Rows[2]
	require.False(t, gone.Active)
	require.Equal(t, EndClosed, gone.TermEnd.Kind)
	require.Equal(t, []Outcome{OutcomeNotMember}, gone.Outcomes)
}

func TestBuildMemberTableCollectsGaps(t *testing.T) {
	roster := []europarl.Member{
		{ID: 1001, FullName: "Jane DOE"},
		{ID: 1006, FullName: "Mystery PERSON"},
	}
	rows := []europarl.MembershipRow{
		{MemberID: 1001, OrgID: "org/ep-9", StartDate: "2019-07-02", Citizenship: "DEU", Gender: "FEMALE", Birthday: "1975-03-14"},
		{MemberID: 1006, OrgID: "org/ep-9", StartDate: "2019-07-02", Citizenship: "QQQ"},
	}
	idx := BuildIndex(rows, testOrgs)

	table, err := BuildMemberTable(roster, idx)
	require.Error(t, err, "reference-data gap must surface after processing")
	require.Len(t, table, 2, "every member still gets a row")

	require.Equal(t, "Germany", table[0].Country)
	require.Equal(t, "FEMALE", table[0].Gender)
	require.Equal(t, day(1975, time.March, 14), table[0].Birthday)
	require.Equal(t, "", table[1].Country)
}

func TestBuildMembershipTableKeepsRawRows(t *testing.T) {
	rows := []europarl.MembershipRow{
		{MemberID: 1001, OrgID: "org/5152", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "2019-07-02", EndDate: "2021-01-10"},
		{MemberID: 1001, OrgID: "org/ep-9", StartDate: "??", EndDate: "junk"},
	}

	table := BuildMembershipTable(rows, testOrgs)
	require.Len(t, table, 2, "the raw dump keeps rows the index would drop")

	require.Equal(t, "EU_POLITICAL_GROUP", table[0].Classification)
	require.Equal(t, "Greens/EFA", table[0].Label)
	require.Equal(t, EndClosed, table[0].End.Kind)

	require.Equal(t, "TERM_SEAT", table[1].Classification)
	require.True(t, table[1].Start.IsZero())
	require.Equal(t, EndUnknown, table[1].End.Kind)
}
