package rollcall

import (
	"errors"
	"testing"
	"time"

	"epvote-monitor/lib/countries"
	"epvote-monitor/lib/scrapers/europarl"
	"epvote-monitor/lib/timezone"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return timezone.Date(y, m, d)
}

var testOrgs = map[string]string{
	"org/5152":  "Greens/EFA",
	"org/5153":  "Renew",
	"org/1023":  "Bündnis 90/Die Grünen",
	"org/ep-9":  "EP9",
	"org/ep-10": "EP10",
}

func memberRows(memberID int64) []europarl.MembershipRow {
	return []europarl.MembershipRow{
		{
			MemberID:       memberID,
			OrgID:          "org/5152",
			Classification: "def/ep-entities/EU_POLITICAL_GROUP",
			StartDate:      "2019-07-02",
			EndDate:        "2021-01-10",
			Citizenship:    "DEU",
			Birthday:       "1975-03-14",
			Gender:         "FEMALE",
		},
		{
			MemberID:       memberID,
			OrgID:          "org/5153",
			Classification: "def/ep-entities/EU_POLITICAL_GROUP",
			StartDate:      "2021-01-11",
			Citizenship:    "DEU",
			Birthday:       "1975-03-14",
			Gender:         "FEMALE",
		},
		{
			MemberID:       memberID,
			OrgID:          "org/1023",
			Classification: "def/ep-entities/NATIONAL_CHAMBER",
			StartDate:      "2019-07-02",
			Citizenship:    "DEU",
		},
		{
			MemberID:    memberID,
			OrgID:       "org/ep-9",
			StartDate:   "2019-07-02",
			EndDate:     "2022-01-01",
			Citizenship: "DEU",
		},
	}
}

func TestResolveOpenEndedInterval(t *testing.T) {
	idx := BuildIndex(memberRows(1001), testOrgs)

	for _, asOf := range []time.Time{
		day(2021, time.January, 11),
		day(2023, time.June, 1),
		day(2030, time.January, 1),
	} {
		iv, ok := idx.Resolve(1001, PoliticalGroup, asOf)
		require.True(t, ok, "asOf %s", asOf)
		require.Equal(t, "Renew", iv.Label)
	}

	_, ok := idx.Resolve(1001, PoliticalGroup, day(2019, time.July, 1))
	require.False(t, ok, "before the first interval starts nothing is active")
}

func TestResolveOverlapLatestStartWins(t *testing.T) {
	rows := []europarl.MembershipRow{
		{MemberID: 1002, OrgID: "org/5152", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "2019-07-02"},
		{MemberID: 1002, OrgID: "org/5153", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "2021-01-11"},
	}
	idx := BuildIndex(rows, testOrgs)

	// both intervals are open-ended and overlap at the query date;
	// the later appointment wins
	iv, ok := idx.Resolve(1002, PoliticalGroup, day(2021, time.January, 15))
	require.True(t, ok)
	require.Equal(t, "Renew", iv.Label)

	// before the second starts only the first matches
	iv, ok = idx.Resolve(1002, PoliticalGroup, day(2020, time.May, 5))
	require.True(t, ok)
	require.Equal(t, "Greens/EFA", iv.Label)
}

func TestResolveDeterminism(t *testing.T) {
	idx := BuildIndex(memberRows(1001), testOrgs)
	asOf := day(2021, time.January, 15)

	first, ok1 := idx.Resolve(1001, PoliticalGroup, asOf)
	second, ok2 := idx.Resolve(1001, PoliticalGroup, asOf)
	require.Equal(t, ok1, ok2)
	require.Equal(t, first, second)
}

func TestBuildIndexDropsInvalidRows(t *testing.T) {
	rows := []europarl.MembershipRow{
		// unparseable start date, cannot be resolved
		{MemberID: 1003, OrgID: "org/5152", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "??"},
		// committee membership, out of resolver scope
		{MemberID: 1003, OrgID: "org/1234", Classification: "def/ep-entities/COMMITTEE", StartDate: "2019-07-02"},
		// fine
		{MemberID: 1003, OrgID: "org/5153", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "2019-07-02"},
	}
	idx := BuildIndex(rows, testOrgs)

	iv, ok := idx.Resolve(1003, PoliticalGroup, day(2020, time.January, 1))
	require.True(t, ok, "valid sibling intervals stay usable")
	require.Equal(t, "Renew", iv.Label)
}

func TestUnparseableEndDateStaysActive(t *testing.T) {
	rows := []europarl.MembershipRow{
		{MemberID: 1004, OrgID: "org/5152", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "2019-07-02", EndDate: "corrupted"},
	}
	idx := BuildIndex(rows, testOrgs)

	iv, ok := idx.Resolve(1004, PoliticalGroup, day(2024, time.March, 1))
	require.True(t, ok)
	require.Equal(t, EndUnknown, iv.End.Kind, "unknown end is distinct from open-ended")
}

func TestActivityStatus(t *testing.T) {
	idx := BuildIndex(memberRows(1001), testOrgs)

	require.True(t, idx.ActivityStatus(1001, "org/ep-9", day(2020, time.June, 1)))
	require.False(t, idx.ActivityStatus(1001, "org/ep-9", day(2022, time.June, 1)), "seat ended 2022-01-01")
	require.False(t, idx.ActivityStatus(1001, "org/ep-10", day(2020, time.June, 1)), "never held a seat in that term")
	require.False(t, idx.ActivityStatus(9999, "org/ep-9", day(2020, time.June, 1)))
}

func TestTermBounds(t *testing.T) {
	idx := BuildIndex(memberRows(1001), testOrgs)

	iv, ok := idx.TermBounds(1001, "org/ep-9")
	require.True(t, ok)
	require.Equal(t, day(2019, time.July, 2), iv.Start)
	require.Equal(t, EndClosed, iv.End.Kind)
	require.Equal(t, day(2022, time.January, 1), iv.End.Date)

	_, ok = idx.TermBounds(1001, "org/ep-10")
	require.False(t, ok)
}

func TestCountry(t *testing.T) {
	idx := BuildIndex(memberRows(1001), testOrgs)

	country, err := idx.Country(1001)
	require.NoError(t, err)
	require.Equal(t, "Germany", country)
}

func TestCountryUnknownCodeSurfaces(t *testing.T) {
	rows := []europarl.MembershipRow{
		{MemberID: 1005, OrgID: "org/5152", Classification: "def/ep-entities/EU_POLITICAL_GROUP", StartDate: "2019-07-02", Citizenship: "ZZZ"},
	}
	idx := BuildIndex(rows, testOrgs)

	_, err := idx.Country(1005)
	require.Error(t, err)
	var unknown countries.UnknownCodeError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "ZZZ", unknown.Code)
}
