package europarl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

type memberDoc struct {
	Identifier string `json:"identifier"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Label      string `json:"label"`
}

// Members lists the full roster of a parliamentary term.
func (c *Client) Members(ctx context.Context, term int) ([]Member, error) {
	ctx, span := tracer.Start(ctx, "Members")
	defer span.End()

	url := fmt.Sprintf("%s/meps?parliamentary-term=%d&offset=0", DataBaseURL, term)
	docs, err := getData[memberDoc](ctx, c, url)
	if err != nil {
		return nil, err
	}

	var out []Member
	for _, doc := range docs {
		id, err := strconv.ParseInt(doc.Identifier, 10, 64)
		if err != nil {
			slog.WarnContext(ctx, "skipping roster entry with non-numeric identifier", "identifier", doc.Identifier)
			continue
		}
		out = append(out, Member{
			ID:         id,
			GivenName:  doc.GivenName,
			FamilyName: doc.FamilyName,
			FullName:   doc.Label,
		})
	}
	return out, nil
}

const (
	roleMemberParliament          = "def/ep-roles/MEMBER_PARLIAMENT"
	classificationPoliticalGroup  = "def/ep-entities/EU_POLITICAL_GROUP"
	classificationNationalChamber = "def/ep-entities/NATIONAL_CHAMBER"
)

type memberDetailDoc struct {
	Citizenship   string `json:"citizenship"`
	Birthday      string `json:"bday"`
	HasGender     string `json:"hasGender"`
	HasMembership []struct {
		Organization             string `json:"organization"`
		Role                     string `json:"role"`
		MembershipClassification string `json:"membershipClassification"`
		MemberDuring             struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		} `json:"memberDuring"`
	} `json:"hasMembership"`
}

// Memberships fetches the affiliation history of one member: political
// group and national chamber memberships plus the term seats (rows
// with the plain parliament-member role and no classification). Other
// membership kinds (committees, delegations) are not surfaced.
func (c *Client) Memberships(ctx context.Context, memberID int64) ([]MembershipRow, error) {
	ctx, span := tracer.Start(ctx, "Memberships")
	defer span.End()

	url := fmt.Sprintf("%s/meps/%d", DataBaseURL, memberID)
	docs, err := getData[memberDetailDoc](ctx, c, url)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	detail := docs[0]

	var out []MembershipRow
	for _, m := range detail.HasMembership {
		termSeat := m.MembershipClassification == "" && m.Role == roleMemberParliament
		classified := m.MembershipClassification == classificationPoliticalGroup ||
			m.MembershipClassification == classificationNationalChamber
		if !termSeat && !classified {
			continue
		}
		out = append(out, MembershipRow{
			MemberID:       memberID,
			OrgID:          m.Organization,
			Classification: m.MembershipClassification,
			StartDate:      m.MemberDuring.StartDate,
			EndDate:        m.MemberDuring.EndDate,
			Citizenship:    uriTail(detail.Citizenship),
			Birthday:       detail.Birthday,
			Gender:         uriTail(detail.HasGender),
		})
	}
	return out, nil
}
