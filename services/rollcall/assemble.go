package rollcall

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"epvote-monitor/lib/scrapers/europarl"
	"epvote-monitor/lib/scrapers/hemicycle"

	"github.com/antzucaro/matchr"
)

// Tri is a nullable boolean column: the source feeds genuinely carry
// an "unknown" case and coercing it away loses information.
type Tri int

const (
	TriUnknown Tri = iota
	TriFalse
	TriTrue
)

func triOf(b bool) Tri {
	if b {
		return TriTrue
	}
	return TriFalse
}

// SummaryRow is one roll-call vote in the Votings table.
type SummaryRow struct {
	VoteID          int64
	Date            time.Time // zero when the decision join failed
	Title           string
	Procedure       string // "" when the title carries no procedure code
	LegType         string // "Leg", "Bud" or "Non-Leg"
	TypeOfVote      string
	VotingRule      string
	Rapporteur      string
	RapporteurMepID int64 // 0 when no roster name matched
	Link            string
	Committee       string
	PolicyArea      string
	Subject         string
	FinalVote       Tri
	AmNo            string
	Author          string
	Outcome         Tri // adopted=true, rejected=false
	Yes             *int64
	No              *int64
	Abs             *int64
}

// BallotRow is one (vote, member) pair in the Votes table.
type BallotRow struct {
	VoteID   int64
	MemberID int64
	Outcome  Outcome
}

// MatrixRow is one roster member in the app-facing wide table:
// metadata plus one outcome per vote, aligned with MemberMatrix.VoteIDs.
type MatrixRow struct {
	MemberID   int64
	SeatID     string
	GivenName  string
	FamilyName string
	FullName   string
	Active     bool
	Country    string
	Party      string
	Group      string
	TermStart  time.Time
	TermEnd    End
	Outcomes   []Outcome
}

type MemberMatrix struct {
	VoteIDs []int64
	Rows    []MatrixRow
}

// MemberInfoRow is one member in the Mep_info table.
type MemberInfoRow struct {
	MemberID   int64
	GivenName  string
	FamilyName string
	FullName   string
	Birthday   time.Time
	Gender     string
	Country    string
}

// MembershipTableRow is one raw affiliation in the Memberships table.
type MembershipTableRow struct {
	MemberID       int64
	OrgID          string
	Classification string
	Start          time.Time
	End            End
	Label          string
}

// the fixed voting rule of plenary roll calls (simple majority)
const votingRuleSimple = "s"

// BuildVotingSummary joins the minutes votings with the decision
// records by voting id. Minutes rows are primary: a vote whose
// decision is missing still gets a row, with the decision-side fields
// left null, so the two output tables stay id-aligned.
func BuildVotingSummary(minutes []europarl.MinutesVote, decisions []europarl.Decision, roster []europarl.Member) []SummaryRow {
	byID := make(map[int64]europarl.Decision, len(decisions))
	for _, d := range decisions {
		byID[d.VotingID] = d
	}

	rows := make([]SummaryRow, 0, len(minutes))
	for _, vote := range minutes {
		procedure := extractProcedure(vote.VoteTitle)
		committee := extractCommittee(vote.Committee)
		rapporteur := ExtractRapporteur(vote.VoteLabel)

		row := SummaryRow{
			VoteID:          vote.VotingID,
			Title:           vote.VoteTitle,
			Procedure:       procedure,
			LegType:         legType(procedure, vote.VoteTitle, vote.Committee),
			TypeOfVote:      vote.VotingTitle,
			VotingRule:      votingRuleSimple,
			Rapporteur:      rapporteur,
			RapporteurMepID: matchRapporteur(rapporteur, roster),
			Link:            DocumentLink(vote.VoteLabel),
			Committee:       committee,
			PolicyArea:      extractPolicyArea(committee),
			Subject:         vote.AmendmentSubject,
			FinalVote:       triOf(vote.FinalVote),
			AmNo:            vote.AmendmentNumber,
			Author:          vote.AmendmentAuthor,
		}

		if decision, ok := byID[vote.VotingID]; ok {
			row.Date = decision.Date
			row.Yes = decision.VotesFavor
			row.No = decision.VotesAgainst
			row.Abs = decision.VotesAbstention
			switch decision.Outcome {
			case "ADOPTED":
				row.Outcome = TriTrue
			case "REJECTED":
				row.Outcome = TriFalse
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// BuildBallots classifies every (vote, roster member) pair. The scope
// is the full roster, not just members who appear in some voter list:
// absence from every list is itself a signal.
func BuildBallots(
	roster []europarl.Member,
	decisions []europarl.Decision,
	attendance []europarl.Attendance,
	idx *Index,
	termOrg string,
) []BallotRow {
	attendanceByDay := make(map[string]europarl.Attendance, len(attendance))
	for _, a := range attendance {
		attendanceByDay[a.Date.Format("2006-01-02")] = a
	}

	rows := make([]BallotRow, 0, len(roster)*len(decisions))
	for _, decision := range decisions {
		sets := NewVoterSets(decision, attendanceByDay[decision.Date.Format("2006-01-02")])
		for _, member := range roster {
			former := !idx.ActivityStatus(member.ID, termOrg, decision.Date)
			rows = append(rows, BallotRow{
				VoteID:   decision.VotingID,
				MemberID: member.ID,
				Outcome:  Classify(member.ID, sets, former),
			})
		}
	}
	return rows
}

// BuildMemberMatrix assembles the app-facing wide table: per-member
// metadata resolved at asOf plus one outcome column per decision.
// Unknown citizenship codes are collected into the returned error; the
// matrix itself is complete either way.
func BuildMemberMatrix(
	roster []europarl.Member,
	seats hemicycle.SeatMap,
	decisions []europarl.Decision,
	attendance []europarl.Attendance,
	idx *Index,
	termOrg string,
	asOf time.Time,
) (MemberMatrix, error) {
	attendanceByDay := make(map[string]europarl.Attendance, len(attendance))
	for _, a := range attendance {
		attendanceByDay[a.Date.Format("2006-01-02")] = a
	}

	matrix := MemberMatrix{
		VoteIDs: make([]int64, len(decisions)),
		Rows:    make([]MatrixRow, 0, len(roster)),
	}
	for i, d := range decisions {
		matrix.VoteIDs[i] = d.VotingID
	}

	var gaps []error
	for _, member := range roster {
		row := MatrixRow{
			MemberID:   member.ID,
			SeatID:     seats[member.ID],
			GivenName:  member.GivenName,
			FamilyName: member.FamilyName,
			FullName:   member.FullName,
			Active:     idx.ActivityStatus(member.ID, termOrg, asOf),
			Outcomes:   make([]Outcome, len(decisions)),
		}

		country, err := idx.Country(member.ID)
		if err != nil {
			gaps = append(gaps, fmt.Errorf("member %d: %w", member.ID, err))
		}
		row.Country = country

		if iv, ok := idx.Resolve(member.ID, NationalChamber, asOf); ok {
			row.Party = iv.Label
		}
		if iv, ok := idx.Resolve(member.ID, PoliticalGroup, asOf); ok {
			row.Group = iv.Label
		}
		if iv, ok := idx.TermBounds(member.ID, termOrg); ok {
			row.TermStart = iv.Start
			row.TermEnd = iv.End
		}

		for i, decision := range decisions {
			sets := NewVoterSets(decision, attendanceByDay[decision.Date.Format("2006-01-02")])
			former := !idx.ActivityStatus(member.ID, termOrg, decision.Date)
			row.Outcomes[i] = Classify(member.ID, sets, former)
		}

		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix, errors.Join(gaps...)
}

// BuildMemberTable assembles the Mep_info table. Reference-data gaps
// (unknown citizenship codes) are collected, not fatal per-row.
func BuildMemberTable(roster []europarl.Member, idx *Index) ([]MemberInfoRow, error) {
	rows := make([]MemberInfoRow, 0, len(roster))
	var gaps []error
	for _, member := range roster {
		row := MemberInfoRow{
			MemberID:   member.ID,
			GivenName:  member.GivenName,
			FamilyName: member.FamilyName,
			FullName:   member.FullName,
		}
		if facts, ok := idx.Facts(member.ID); ok {
			row.Birthday = facts.Birthday
			row.Gender = facts.Gender
		}
		country, err := idx.Country(member.ID)
		if err != nil {
			gaps = append(gaps, fmt.Errorf("member %d: %w", member.ID, err))
		}
		row.Country = country
		rows = append(rows, row)
	}
	return rows, errors.Join(gaps...)
}

// BuildMembershipTable dumps the raw affiliation rows for the
// Memberships table. Unlike the index this keeps rows with unparseable
// dates, they just carry zero/unknown bounds.
func BuildMembershipTable(rows []europarl.MembershipRow, orgs map[string]string) []MembershipTableRow {
	out := make([]MembershipTableRow, 0, len(rows))
	for _, row := range rows {
		r := MembershipTableRow{
			MemberID:       row.MemberID,
			OrgID:          row.OrgID,
			Classification: classify(row).String(),
			Label:          orgs[row.OrgID],
			End:            End{Kind: EndOpen},
		}
		if start, err := europarl.ParseDate(row.StartDate); err == nil {
			r.Start = start
		}
		if row.EndDate != "" {
			if end, err := europarl.ParseDate(row.EndDate); err == nil {
				r.End = End{Kind: EndClosed, Date: end}
			} else {
				r.End = End{Kind: EndUnknown}
			}
		}
		out = append(out, r)
	}
	return out
}

// extractProcedure pulls the procedure code off a vote title: the
// asterisk-suffix convention (e.g. "***I" ordinary legislative
// procedure markers).
func extractProcedure(title string) string {
	i := strings.Index(title, "*")
	if i == -1 {
		return ""
	}
	return title[i:]
}

// legType derives the Leg/Non-Leg/Bud column: any procedure code means
// legislative; otherwise a budget mention in title or committee means
// budgetary.
func legType(procedure, title, committee string) string {
	if procedure != "" {
		return "Leg"
	}
	if strings.Contains(strings.ToLower(title), "budget") ||
		strings.Contains(strings.ToLower(committee), "budget") {
		return "Bud"
	}
	return "Non-Leg"
}

const reportPrefix = "Report: "

// ExtractRapporteur parses the rapporteur name out of a vote label of
// the exact shape "Report: <Name> (...)". Any other shape yields "".
func ExtractRapporteur(label string) string {
	if !strings.HasPrefix(label, reportPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(label, reportPrefix)
	name, _, found := strings.Cut(rest, " (")
	if !found {
		return ""
	}
	return name
}

var documentRefRegex = regexp.MustCompile(`([ABC])(\d)-(\d{4})/(\d{4})`)

// DocumentLink turns a document reference inside a vote label (e.g.
// "A9-0001/2024") into the public document URL. No reference, no link.
func DocumentLink(label string) string {
	m := documentRefRegex.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	letter, term, number, year := m[1], m[2], m[3], m[4]
	return fmt.Sprintf("%s/%s-%s-%s-%s_EN.html", europarl.DoceoBaseURL, letter, term, year, number)
}

func extractCommittee(committee string) string {
	return strings.ReplaceAll(committee, "Committee: ", "")
}

func extractPolicyArea(committee string) string {
	if !strings.Contains(committee, "Committee on ") {
		return committee
	}
	area := strings.ReplaceAll(committee, "Committee on ", "")
	return strings.ReplaceAll(area, "the ", "")
}

// rapporteur labels spell names slightly differently from the roster
// (accents, middle names), exact equality misses too much
const rapporteurMatchThreshold = 0.9

func matchRapporteur(name string, roster []europarl.Member) int64 {
	if name == "" {
		return 0
	}
	// the roster uppercases family names, compare case-folded
	name = strings.ToLower(name)
	var bestID int64
	var bestScore float64
	for _, member := range roster {
		score := matchr.JaroWinkler(name, strings.ToLower(member.FullName), false)
		if score > bestScore {
			bestScore = score
			bestID = member.ID
		}
	}
	if bestScore < rapporteurMatchThreshold {
		return 0
	}
	return bestID
}
