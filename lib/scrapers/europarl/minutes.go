package europarl

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

type minutesXML struct {
	Votes []minutesVoteXML `xml:"vote"`
}

type minutesVoteXML struct {
	Title     string             `xml:"title"`
	Label     string             `xml:"label"`
	Committee string             `xml:"committee,attr"`
	Votings   []minutesVotingXML `xml:"voting"`
}

type minutesVotingXML struct {
	VotingID         string `xml:"votingId,attr"`
	Result           string `xml:"result,attr"`
	ResultType       string `xml:"resultType,attr"`
	Title            string `xml:"title"`
	Label            string `xml:"label"`
	AmendmentSubject string `xml:"amendmentSubject"`
	AmendmentNumber  string `xml:"amendmentNumber"`
	AmendmentAuthor  string `xml:"amendmentAuthor"`
}

// Minutes fetches and parses the voting-results minutes document
// (PV-<term>-<date>-VOT_EN.xml) of one sitting, keeping roll-call
// votings only.
func (c *Client) Minutes(ctx context.Context, term int, date time.Time) ([]MinutesVote, error) {
	ctx, span := tracer.Start(ctx, "Minutes")
	defer span.End()

	url := fmt.Sprintf("%s/PV-%d-%s-VOT_EN.xml", DoceoBaseURL, term, date.Format("2006-01-02"))
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("accept", "application/xml").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", url, res.StatusCode())
	}

	votes, err := ParseMinutes(res.Body())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	for i := range votes {
		if votes[i].VotingID == 0 {
			slog.WarnContext(ctx, "minutes voting without numeric id", "title", votes[i].VoteTitle)
		}
	}
	return votes, nil
}

// ParseMinutes decodes a VOT minutes document. The nested vote/voting
// structure is flattened into one row per roll-call voting; the last
// voting under each vote element carries the final-vote flag.
func ParseMinutes(document []byte) ([]MinutesVote, error) {
	var doc minutesXML
	if err := xml.Unmarshal(document, &doc); err != nil {
		return nil, err
	}

	var out []MinutesVote
	for _, vote := range doc.Votes {
		for i, voting := range vote.Votings {
			if voting.ResultType != "ROLL_CALL" {
				continue
			}
			votingID, _ := strconv.ParseInt(voting.VotingID, 10, 64)
			out = append(out, MinutesVote{
				VotingID:         votingID,
				VoteTitle:        vote.Title,
				VoteLabel:        vote.Label,
				Committee:        vote.Committee,
				VotingTitle:      voting.Title,
				VotingLabel:      voting.Label,
				AmendmentSubject: voting.AmendmentSubject,
				AmendmentNumber:  voting.AmendmentNumber,
				AmendmentAuthor:  voting.AmendmentAuthor,
				Result:           voting.Result,
				FinalVote:        i == len(vote.Votings)-1,
			})
		}
	}
	return out, nil
}
