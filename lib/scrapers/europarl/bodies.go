package europarl

import (
	"context"
	"fmt"
)

type corporateBodyDoc struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func (c *Client) corporateBodies(ctx context.Context, classification string) ([]CorporateBody, error) {
	url := fmt.Sprintf("%s/corporate-bodies?body-classification=%s&offset=0", DataBaseURL, classification)
	docs, err := getData[corporateBodyDoc](ctx, c, url)
	if err != nil {
		return nil, err
	}

	out := make([]CorporateBody, len(docs))
	for i, doc := range docs {
		out[i] = CorporateBody{ID: doc.ID, Label: doc.Label}
	}
	return out, nil
}

// PoliticalGroups lists the transnational political groups.
func (c *Client) PoliticalGroups(ctx context.Context) ([]CorporateBody, error) {
	ctx, span := tracer.Start(ctx, "PoliticalGroups")
	defer span.End()
	return c.corporateBodies(ctx, "EU_POLITICAL_GROUP")
}

// NationalParties lists the national chamber groupings.
func (c *Client) NationalParties(ctx context.Context) ([]CorporateBody, error) {
	ctx, span := tracer.Start(ctx, "NationalParties")
	defer span.End()
	return c.corporateBodies(ctx, "NATIONAL_CHAMBER")
}

// TermOrg is the organization id of a parliamentary term seat.
func TermOrg(term int) string {
	return fmt.Sprintf("org/ep-%d", term)
}

// TermOrgs generates the term-seat reference bodies, org/ep-0 through
// org/ep-<term>. These are not served by the corporate-bodies endpoint.
func TermOrgs(term int) []CorporateBody {
	out := make([]CorporateBody, 0, term+1)
	for i := 0; i <= term; i++ {
		out = append(out, CorporateBody{
			ID:    TermOrg(i),
			Label: fmt.Sprintf("EP%d", i),
		})
	}
	return out
}
