package hemicycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const chamberFixture = `<html><body><svg>
<circle id="seat-001" data-id-mep="124810" cx="1" cy="1" r="4"/>
<circle id="seat-002" data-id-mep="96834" cx="2" cy="1" r="4"/>
<circle id="seat-003" cx="3" cy="1" r="4"/>
<circle id="seat-004" data-id-mep="vacant" cx="4" cy="1" r="4"/>
</svg></body></html>`

func TestParseSeatMap(t *testing.T) {
	seats, err := ParseSeatMap(chamberFixture)
	require.NoError(t, err)

	require.Len(t, seats, 2)
	require.Equal(t, "seat-001", seats[124810])
	require.Equal(t, "seat-002", seats[96834])
}

type fixtureRenderer struct{}

func (fixtureRenderer) Render(ctx context.Context, url string) (string, error) {
	return chamberFixture, nil
}

func TestScrape(t *testing.T) {
	seats, err := Scrape(context.Background(), fixtureRenderer{})
	require.NoError(t, err)
	require.Len(t, seats, 2)
}
