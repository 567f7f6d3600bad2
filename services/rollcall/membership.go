package rollcall

import (
	"sort"
	"time"

	"epvote-monitor/lib/countries"
	"epvote-monitor/lib/scrapers/europarl"
)

// Classification buckets the membership kinds the resolver cares
// about. Anything else in the feed (committees, delegations) is
// dropped at index build time.
type Classification int

const (
	Unclassified Classification = iota
	PoliticalGroup
	NationalChamber
	TermSeat
)

func (c Classification) String() string {
	switch c {
	case PoliticalGroup:
		return "EU_POLITICAL_GROUP"
	case NationalChamber:
		return "NATIONAL_CHAMBER"
	case TermSeat:
		return "TERM_SEAT"
	}
	return "UNCLASSIFIED"
}

func classify(row europarl.MembershipRow) Classification {
	switch row.Classification {
	case "def/ep-entities/EU_POLITICAL_GROUP":
		return PoliticalGroup
	case "def/ep-entities/NATIONAL_CHAMBER":
		return NationalChamber
	case "":
		// the API layer only passes through empty classifications
		// for plain parliament-member (term seat) rows
		return TermSeat
	}
	return Unclassified
}

// EndKind distinguishes a recorded end date from the two lookalike
// "no end date" cases: a genuinely open-ended membership and an end
// the feed carried but we could not parse.
type EndKind int

const (
	EndClosed EndKind = iota
	EndOpen
	EndUnknown
)

type End struct {
	Kind EndKind
	Date time.Time
}

func (e End) activeAt(t time.Time) bool {
	return e.Kind != EndClosed || !e.Date.Before(t)
}

// Interval is one continuous affiliation of a member.
type Interval struct {
	Org            string
	Label          string
	Classification Classification
	Start          time.Time
	End            End
}

func (iv Interval) activeAt(t time.Time) bool {
	return !iv.Start.After(t) && iv.End.activeAt(t)
}

// MemberFacts are the member-level fields the feed duplicates onto
// every membership row.
type MemberFacts struct {
	Citizenship string
	Gender      string
	Birthday    time.Time
}

type indexKey struct {
	member int64
	class  Classification
}

// Index holds every member's affiliations ordered by start date,
// keyed by (member, classification). Once built it is never mutated,
// so concurrent resolution needs no locking.
type Index struct {
	intervals map[indexKey][]Interval
	facts     map[int64]MemberFacts
}

// BuildIndex is a pure transform of raw membership rows into the
// interval index. Rows with an unrecognized classification or an
// unparseable start date are dropped; overlapping intervals are kept
// as-is, tie-breaking is the resolver's job. orgs maps organization
// ids to display labels.
func BuildIndex(rows []europarl.MembershipRow, orgs map[string]string) *Index {
	idx := &Index{
		intervals: map[indexKey][]Interval{},
		facts:     map[int64]MemberFacts{},
	}

	for _, row := range rows {
		class := classify(row)
		if class == Unclassified {
			continue
		}
		start, err := europarl.ParseDate(row.StartDate)
		if err != nil {
			// an interval without a start can never be resolved
			continue
		}

		end := End{Kind: EndOpen}
		if row.EndDate != "" {
			date, err := europarl.ParseDate(row.EndDate)
			if err != nil {
				end = End{Kind: EndUnknown}
			} else {
				end = End{Kind: EndClosed, Date: date}
			}
		}

		key := indexKey{member: row.MemberID, class: class}
		idx.intervals[key] = append(idx.intervals[key], Interval{
			Org:            row.OrgID,
			Label:          orgs[row.OrgID],
			Classification: class,
			Start:          start,
			End:            end,
		})

		if _, ok := idx.facts[row.MemberID]; !ok {
			facts := MemberFacts{
				Citizenship: row.Citizenship,
				Gender:      row.Gender,
			}
			if bday, err := europarl.ParseDate(row.Birthday); err == nil {
				facts.Birthday = bday
			}
			idx.facts[row.MemberID] = facts
		}
	}

	for key := range idx.intervals {
		list := idx.intervals[key]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Start.Before(list[j].Start)
		})
	}
	return idx
}

// Resolve answers which organization of the given classification the
// member belonged to at asOf. When overlapping intervals both match,
// the latest appointment wins; the feeds are not interval-disjoint and
// this tie-break is deliberate policy, not incidental.
func (idx *Index) Resolve(memberID int64, class Classification, asOf time.Time) (Interval, bool) {
	var best Interval
	found := false
	for _, iv := range idx.intervals[indexKey{member: memberID, class: class}] {
		if !iv.activeAt(asOf) {
			continue
		}
		if !found || iv.Start.After(best.Start) {
			best = iv
			found = true
		}
	}
	return best, found
}

// ActivityStatus reports whether the member held the given term seat
// at asOf.
func (idx *Index) ActivityStatus(memberID int64, termOrg string, asOf time.Time) bool {
	for _, iv := range idx.intervals[indexKey{member: memberID, class: TermSeat}] {
		if iv.Org == termOrg && iv.activeAt(asOf) {
			return true
		}
	}
	return false
}

// TermBounds returns the member's first seat interval for the given
// term, regardless of any asOf date. Used for roster metadata.
func (idx *Index) TermBounds(memberID int64, termOrg string) (Interval, bool) {
	for _, iv := range idx.intervals[indexKey{member: memberID, class: TermSeat}] {
		if iv.Org == termOrg {
			return iv, true
		}
	}
	return Interval{}, false
}

// Country resolves the member's citizenship code to a country name.
// An unknown code means the reference table needs updating; the error
// must reach the caller, not be silently replaced with a blank.
func (idx *Index) Country(memberID int64) (string, error) {
	facts, ok := idx.facts[memberID]
	if !ok {
		return "", countries.UnknownCodeError{Code: ""}
	}
	return countries.Name(facts.Citizenship)
}

// Facts returns the member-level fields captured during the build.
func (idx *Index) Facts(memberID int64) (MemberFacts, bool) {
	facts, ok := idx.facts[memberID]
	return facts, ok
}
