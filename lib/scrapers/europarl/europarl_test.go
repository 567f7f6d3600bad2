package europarl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const minutesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<votes>
  <vote committee="Committee: Committee on Budgets">
    <title>Mobilisation of the European Globalisation Adjustment Fund</title>
    <label>Report: Jane Doe (A9-0001/2024)</label>
    <voting votingId="165001" result="+" resultType="ROLL_CALL">
      <title>Am 1</title>
      <label>Amendment 1</label>
      <amendmentSubject>Paragraph 4</amendmentSubject>
      <amendmentNumber>1</amendmentNumber>
      <amendmentAuthor>The Left</amendmentAuthor>
    </voting>
    <voting votingId="165002" result="+" resultType="ELECTRONICAL">
      <title>Single vote (electronic)</title>
    </voting>
    <voting votingId="165003" result="+" resultType="ROLL_CALL">
      <title>Single vote</title>
    </voting>
  </vote>
</votes>`

func TestParseMinutes(t *testing.T) {
	votes, err := ParseMinutes([]byte(minutesFixture))
	require.NoError(t, err)

	// the ELECTRONICAL row is filtered out
	require.Len(t, votes, 2)

	require.Equal(t, int64(165001), votes[0].VotingID)
	require.Equal(t, "Mobilisation of the European Globalisation Adjustment Fund", votes[0].VoteTitle)
	require.Equal(t, "Report: Jane Doe (A9-0001/2024)", votes[0].VoteLabel)
	require.Equal(t, "Committee: Committee on Budgets", votes[0].Committee)
	require.Equal(t, "Paragraph 4", votes[0].AmendmentSubject)
	require.Equal(t, "1", votes[0].AmendmentNumber)
	require.False(t, votes[0].FinalVote)

	// last voting under the vote element is the final vote
	require.Equal(t, int64(165003), votes[1].VotingID)
	require.True(t, votes[1].FinalVote)
}

func TestDecisionDocUnmarshal(t *testing.T) {
	raw := `{
		"notation_votingId": "165001",
		"activity_date": "2024-04-10",
		"had_decision_outcome": "def/ep-statuses/ADOPTED",
		"number_of_votes_favor": 400,
		"number_of_votes_against": 150,
		"number_of_votes_abstention": 30,
		"had_voter_favor": ["person/1001", "person/1002"],
		"had_voter_against": "person/1003",
		"had_voter_abstention": null
	}`

	var doc decisionDoc
	err := json.Unmarshal([]byte(raw), &doc)
	require.NoError(t, err)

	require.Equal(t, "165001", doc.NotationVotingID)
	require.Equal(t, "ADOPTED", uriTail(doc.HadDecisionOutcome))
	require.Equal(t, int64(400), *doc.NumberOfVotesFavor)
	require.Equal(t, []int64{1001, 1002}, personIDs(doc.HadVoterFavor))
	// single-element lists arrive as bare strings in framed ld+json
	require.Equal(t, []int64{1003}, personIDs(doc.HadVoterAgainst))
	require.Empty(t, personIDs(doc.HadVoterAbstention))
}

func TestPersonIDsDropPlaceholders(t *testing.T) {
	ids := personIDs([]string{"person/124810", "person/n-a", "", "person/-1"})
	require.Equal(t, []int64{124810}, ids)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-04-10")
	require.NoError(t, err)
	require.Equal(t, 2024, date.Year())
	require.Equal(t, 10, date.Day())

	// a UTC timestamp late in the evening is already the next
	// calendar day in Brussels (CEST, +02:00 in April)
	date, err = ParseDate("2024-04-10T23:00:00Z")
	require.NoError(t, err)
	require.Equal(t, 11, date.Day())

	_, err = ParseDate("not-a-date")
	require.Error(t, err)
}

func TestTermOrgs(t *testing.T) {
	orgs := TermOrgs(9)
	require.Len(t, orgs, 10)
	require.Equal(t, "org/ep-0", orgs[0].ID)
	require.Equal(t, "EP9", orgs[9].Label)
	require.Equal(t, "org/ep-9", TermOrg(9))
}
