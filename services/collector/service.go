package collector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"epvote-monitor/lib/countries"
	"epvote-monitor/lib/scrapers/europarl"
	"epvote-monitor/lib/scrapers/hemicycle"
	"epvote-monitor/lib/timezone"
	"epvote-monitor/services/collector/db"
	"epvote-monitor/services/export"
	"epvote-monitor/services/rollcall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/collector")

// Fetcher is the slice of the parliament API client the collector
// needs. *europarl.Client satisfies it.
type Fetcher interface {
	Sittings(ctx context.Context, year int) ([]europarl.Sitting, error)
	Attendance(ctx context.Context, date time.Time) (europarl.Attendance, error)
	Decisions(ctx context.Context, date time.Time) ([]europarl.Decision, error)
	Minutes(ctx context.Context, term int, date time.Time) ([]europarl.MinutesVote, error)
	Members(ctx context.Context, term int) ([]europarl.Member, error)
	Memberships(ctx context.Context, memberID int64) ([]europarl.MembershipRow, error)
	PoliticalGroups(ctx context.Context) ([]europarl.CorporateBody, error)
	NationalParties(ctx context.Context) ([]europarl.CorporateBody, error)
}

// RelationalStore is the warehouse side of a collection run.
// export.PostgresStore satisfies it.
type RelationalStore interface {
	AppendVotings(ctx context.Context, rows []rollcall.SummaryRow) error
	AppendBallots(ctx context.Context, rows []rollcall.BallotRow) error
	ReplaceMembers(ctx context.Context, rows []rollcall.MemberInfoRow) error
	ReplaceMemberships(ctx context.Context, rows []rollcall.MembershipTableRow) error
}

type Service struct {
	fetcher    Fetcher
	renderer   hemicycle.Renderer
	objects    export.ObjectStore
	relational RelationalStore
	db         *sql.DB
	qry        *db.Queries
}

func NewService(fetcher Fetcher, renderer hemicycle.Renderer, objects export.ObjectStore, relational RelationalStore, database *sql.DB) Service {
	return Service{
		fetcher:    fetcher,
		renderer:   renderer,
		objects:    objects,
		relational: relational,
		db:         database,
		qry:        db.New(database),
	}
}

// membership fetches are one request per roster member, keep the
// fan-out polite
const membershipFetchWorkers = 8

// Month is everything a collection run assembled for one month,
// before and after export.
type Month struct {
	Year    int
	Month   time.Month
	Summary []rollcall.SummaryRow
	Ballots []rollcall.BallotRow
	Matrix  rollcall.MemberMatrix
	Members []rollcall.MemberInfoRow
	Index   *rollcall.Index
}

// CollectMonth runs the full pipeline for one calendar month: fetch,
// assemble, archive to object storage, load into the warehouse.
// Reference-data gaps are collected and returned at the very end, after
// all outputs are written; a gap is a data-quality signal, not a reason
// to lose a month.
func (s Service) CollectMonth(ctx context.Context, year int, month time.Month) (Month, error) {
	ctx, span := tracer.Start(ctx, "CollectMonth")
	defer span.End()
	span.SetAttributes(
		attribute.Int("year", year),
		attribute.Int("month", int(month)),
	)

	out := Month{Year: year, Month: month}

	sittings, err := s.fetcher.Sittings(ctx, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}
	var days []time.Time
	for _, sitting := range sittings {
		if sitting.Date.Month() == month {
			days = append(days, sitting.Date)
		}
	}
	if len(days) == 0 {
		slog.InfoContext(ctx, "no plenary sittings in month", "year", year, "month", month)
		return out, nil
	}

	term := termFor(year, month)
	termOrg := europarl.TermOrg(term)

	var minutes []europarl.MinutesVote
	var decisions []europarl.Decision
	var attendance []europarl.Attendance
	for _, day := range days {
		dayMinutes, err := s.fetcher.Minutes(ctx, term, day)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch minutes, skipping day", "date", day, "err", err)
			continue
		}
		dayDecisions, err := s.fetcher.Decisions(ctx, day)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch decisions, skipping day", "date", day, "err", err)
			continue
		}
		dayAttendance, err := s.fetcher.Attendance(ctx, day)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch attendance", "date", day, "err", err)
		}

		s.snapshot(ctx, "minutes", day, dayMinutes)
		s.snapshot(ctx, "decisions", day, dayDecisions)
		s.snapshot(ctx, "attendance", day, dayAttendance)

		minutes = append(minutes, dayMinutes...)
		decisions = append(decisions, dayDecisions...)
		attendance = append(attendance, dayAttendance)
	}

	roster, err := s.fetcher.Members(ctx, term)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}

	orgs, err := s.referenceOrgs(ctx, term)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}

	membershipRows := s.fetchMemberships(ctx, roster)
	idx := rollcall.BuildIndex(membershipRows, orgs)

	// the seating chart only decorates the member matrix; a scrape
	// failure costs the SeatId column, not the month
	seats, err := s.Seats(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to scrape seating chart", "err", err)
		seats = hemicycle.SeatMap{}
	}

	out.Summary = rollcall.BuildVotingSummary(minutes, decisions, roster)
	out.Ballots = rollcall.BuildBallots(roster, decisions, attendance, idx, termOrg)
	out.Index = idx

	// member metadata is resolved as of the first sitting of the month
	matrix, matrixGaps := rollcall.BuildMemberMatrix(roster, seats, decisions, attendance, idx, termOrg, days[0])
	out.Matrix = matrix

	memberTable, memberGaps := rollcall.BuildMemberTable(roster, idx)
	out.Members = memberTable
	membershipTable := rollcall.BuildMembershipTable(membershipRows, orgs)
	// both builders walk the same roster, so their gap sets coincide;
	// keep one copy of each
	gaps := matrixGaps
	if gaps == nil {
		gaps = memberGaps
	}

	if err := s.archive(ctx, year, month, out.Summary, out.Matrix); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}
	if err := s.load(ctx, out.Summary, out.Ballots, memberTable, membershipTable); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}

	err = s.qry.MarkMonthCollected(ctx, db.MarkMonthCollectedParams{
		Year:        int64(year),
		Month:       int64(month),
		CompletedAt: timezone.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}

	if gaps != nil {
		span.RecordError(gaps)
		slog.WarnContext(ctx, "collection completed with reference data gaps", "err", gaps)
	}
	return out, gaps
}

// Seats scrapes the hemicycle seating chart.
func (s Service) Seats(ctx context.Context) (hemicycle.SeatMap, error) {
	ctx, span := tracer.Start(ctx, "Seats")
	defer span.End()

	seats, err := hemicycle.Scrape(ctx, s.renderer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return seats, nil
}

func (s Service) referenceOrgs(ctx context.Context, term int) (map[string]string, error) {
	groups, err := s.fetcher.PoliticalGroups(ctx)
	if err != nil {
		return nil, err
	}
	parties, err := s.fetcher.NationalParties(ctx)
	if err != nil {
		return nil, err
	}

	orgs := make(map[string]string, len(groups)+len(parties)+term)
	for _, body := range groups {
		orgs[body.ID] = body.Label
	}
	for _, body := range parties {
		orgs[body.ID] = body.Label
	}
	for _, body := range europarl.TermOrgs(term) {
		orgs[body.ID] = body.Label
	}
	return orgs, nil
}

func (s Service) fetchMemberships(ctx context.Context, roster []europarl.Member) []europarl.MembershipRow {
	ctx, span := tracer.Start(ctx, "fetchMemberships")
	defer span.End()
	span.SetAttributes(attribute.Int("members", len(roster)))

	var mu sync.Mutex
	var rows []europarl.MembershipRow

	var wg sync.WaitGroup
	sem := make(chan struct{}, membershipFetchWorkers)
	for _, member := range roster {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			memberRows, err := s.fetcher.Memberships(ctx, member.ID)
			if err != nil {
				slog.WarnContext(ctx, "failed to fetch memberships", "member", member.ID, "err", err)
				return
			}
			mu.Lock()
			rows = append(rows, memberRows...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return rows
}

// archive writes the month's csv files to object storage: the voting
// summary and the per-member outcome matrix the app reads. The long
// ballot table goes to the warehouse only.
func (s Service) archive(ctx context.Context, year int, month time.Month, summary []rollcall.SummaryRow, matrix rollcall.MemberMatrix) error {
	summaryCSV, err := export.EncodeSummary(summary)
	if err != nil {
		return err
	}
	matrixCSV, err := export.EncodeMatrix(matrix)
	if err != nil {
		return err
	}
	if err := s.objects.Put(ctx, export.SummaryPath(year, month), summaryCSV); err != nil {
		return err
	}
	return s.objects.Put(ctx, export.MatrixPath(year, month), matrixCSV)
}

func (s Service) load(
	ctx context.Context,
	summary []rollcall.SummaryRow,
	ballots []rollcall.BallotRow,
	members []rollcall.MemberInfoRow,
	memberships []rollcall.MembershipTableRow,
) error {
	if err := s.relational.AppendVotings(ctx, summary); err != nil {
		return err
	}
	if err := s.relational.AppendBallots(ctx, ballots); err != nil {
		return err
	}
	if err := s.relational.ReplaceMembers(ctx, members); err != nil {
		return err
	}
	return s.relational.ReplaceMemberships(ctx, memberships)
}

// snapshot caches a raw fetched payload so a rerun can be diffed
// against what the API served at collection time.
func (s Service) snapshot(ctx context.Context, kind string, day time.Time, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode snapshot", "kind", kind, "date", day, "err", err)
		return
	}
	err = s.qry.PutSnapshot(ctx, db.PutSnapshotParams{
		Kind:      kind,
		Day:       day.Format("2006-01-02"),
		FetchedAt: timezone.Now().Unix(),
		Payload:   data,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to cache snapshot", "kind", kind, "date", day, "err", err)
	}
}

// IsReferenceGap reports whether err is a reference-data gap from
// CollectMonth, as opposed to a hard pipeline failure. Gaps are
// surfaced after all outputs are written, so a caller can downgrade
// them to a warning.
func IsReferenceGap(err error) bool {
	var unknown countries.UnknownCodeError
	return errors.As(err, &unknown)
}

// termFor maps a collection month to a parliamentary term. The ninth
// term ran through mid-July 2024.
func termFor(year int, month time.Month) int {
	switch {
	case year > 2024 || (year == 2024 && month >= time.July):
		return 10
	case year > 2019 || (year == 2019 && month >= time.July):
		return 9
	}
	return 8
}
