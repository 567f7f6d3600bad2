package europarl

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"epvote-monitor/lib/timezone"
)

// Sitting is one plenary meeting day.
type Sitting struct {
	ActivityID string
	Date       time.Time
}

// Attendance carries the per-sitting excused/participant person lists.
type Attendance struct {
	Date         time.Time
	Excused      []int64
	Participants []int64
}

// Decision is one roll-call decision record from the meetings/decisions
// endpoint: outcome, tallies and the individual voter id lists.
type Decision struct {
	VotingID int64
	Date     time.Time
	// "ADOPTED", "REJECTED" or "" when the status URI is missing
	// or from an unknown vocabulary
	Outcome string

	VotesFavor      *int64
	VotesAgainst    *int64
	VotesAbstention *int64

	VoterFavor              []int64
	VoterAgainst            []int64
	VoterAbstention         []int64
	VoterIntendedFavor      []int64
	VoterIntendedAgainst    []int64
	VoterIntendedAbstention []int64
}

// MinutesVote is one voting row parsed out of the PV-…-VOT_EN.xml
// minutes document. Only ROLL_CALL rows are surfaced.
type MinutesVote struct {
	VotingID         int64
	VoteTitle        string
	VoteLabel        string
	Committee        string
	VotingTitle      string
	VotingLabel      string
	AmendmentSubject string
	AmendmentNumber  string
	AmendmentAuthor  string
	Result           string
	// the last voting under a vote element is the final vote on
	// that subject
	FinalVote bool
}

// Member is one roster entry for a parliamentary term.
type Member struct {
	ID         int64
	GivenName  string
	FamilyName string
	FullName   string
}

// MembershipRow is one raw affiliation row for a member. Dates stay as
// the API's strings: the interval index owns the policy of dropping
// rows it cannot parse.
type MembershipRow struct {
	MemberID       int64
	OrgID          string
	Classification string
	StartDate      string
	EndDate        string

	// member-level facts, duplicated on every row by the API layout
	Citizenship string
	Birthday    string
	Gender      string
}

// CorporateBody is reference data: organization id to display label.
type CorporateBody struct {
	ID    string
	Label string
}

// stringOrList tolerates the framed ld+json habit of collapsing
// single-element arrays into bare strings.
type stringOrList []string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		// tolerate null and scalar junk, the entry is simply absent
		*s = nil
		return nil
	}
	*s = many
	return nil
}

// personIDs reduces "person/124810"-style URIs to numeric ids.
// Non-numeric placeholders are dropped so they can never match a
// member id downstream.
func personIDs(uris []string) []int64 {
	var out []int64
	for _, uri := range uris {
		id, ok := personID(uri)
		if !ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

func personID(uri string) (int64, bool) {
	tail := uri[strings.LastIndex(uri, "/")+1:]
	id, err := strconv.ParseInt(tail, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// uriTail returns the last path segment of a vocabulary URI, e.g.
// "def/ep-statuses/ADOPTED" -> "ADOPTED".
func uriTail(uri string) string {
	return uri[strings.LastIndex(uri, "/")+1:]
}

func ParseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		t, err := time.ParseInLocation(layout, raw, timezone.Location)
		if err == nil {
			// timestamps may carry their own offset; truncate on the
			// Brussels calendar day, not the wire day
			t = t.In(timezone.Location)
			return timezone.Date(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: "2006-01-02", Value: raw}
}
