package europarl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

type decisionDoc struct {
	NotationVotingID string `json:"notation_votingId"`
	ActivityDate     string `json:"activity_date"`
	// controlled vocabulary URI, e.g. "def/ep-statuses/ADOPTED"
	HadDecisionOutcome string `json:"had_decision_outcome"`

	NumberOfVotesFavor      *int64 `json:"number_of_votes_favor"`
	NumberOfVotesAgainst    *int64 `json:"number_of_votes_against"`
	NumberOfVotesAbstention *int64 `json:"number_of_votes_abstention"`

	HadVoterFavor              stringOrList `json:"had_voter_favor"`
	HadVoterAgainst            stringOrList `json:"had_voter_against"`
	HadVoterAbstention         stringOrList `json:"had_voter_abstention"`
	HadVoterIntendedFavor      stringOrList `json:"had_voter_intended_favor"`
	HadVoterIntendedAgainst    stringOrList `json:"had_voter_intended_against"`
	HadVoterIntendedAbstention stringOrList `json:"had_voter_intended_abstention"`
}

// Decisions fetches the roll-call decisions of one sitting day,
// including every individual voter list.
func (c *Client) Decisions(ctx context.Context, date time.Time) ([]Decision, error) {
	ctx, span := tracer.Start(ctx, "Decisions")
	defer span.End()

	day := date.Format("2006-01-02")
	url := fmt.Sprintf(
		"%s/meetings/%s%s/decisions?vote-method=ROLL_CALL_EV&json-layout=framed&limit=5000",
		DataBaseURL, sittingPrefix, day,
	)
	docs, err := getData[decisionDoc](ctx, c, url)
	if err != nil {
		return nil, err
	}

	var out []Decision
	for _, doc := range docs {
		votingID, err := strconv.ParseInt(doc.NotationVotingID, 10, 64)
		if err != nil {
			slog.WarnContext(ctx, "skipping decision with non-numeric voting id", "voting_id", doc.NotationVotingID)
			continue
		}

		decisionDate := date
		if parsed, err := ParseDate(doc.ActivityDate); err == nil {
			decisionDate = parsed
		}

		outcome := ""
		switch uriTail(doc.HadDecisionOutcome) {
		case "ADOPTED":
			outcome = "ADOPTED"
		case "REJECTED":
			outcome = "REJECTED"
		}

		out = append(out, Decision{
			VotingID:                votingID,
			Date:                    decisionDate,
			Outcome:                 outcome,
			VotesFavor:              doc.NumberOfVotesFavor,
			VotesAgainst:            doc.NumberOfVotesAgainst,
			VotesAbstention:         doc.NumberOfVotesAbstention,
			VoterFavor:              personIDs(doc.HadVoterFavor),
			VoterAgainst:            personIDs(doc.HadVoterAgainst),
			VoterAbstention:         personIDs(doc.HadVoterAbstention),
			VoterIntendedFavor:      personIDs(doc.HadVoterIntendedFavor),
			VoterIntendedAgainst:    personIDs(doc.HadVoterIntendedAgainst),
			VoterIntendedAbstention: personIDs(doc.HadVoterIntendedAbstention),
		})
	}
	return out, nil
}
