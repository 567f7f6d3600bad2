package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"epvote-monitor/services/rollcall"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/export")

// ErrNoRows is returned when a writer is handed an empty batch. An
// empty Votings or Votes batch for a month with sittings means an
// upstream fetch silently produced nothing.
var ErrNoRows = errors.New("export: refusing to write an empty batch")

// PostgresStore writes the assembled tables to the relational
// database. Votings and Votes are append-only; Mep_info and
// Memberships are snapshots and get replaced wholesale.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) PostgresStore {
	return PostgresStore{db: db}
}

func (s PostgresStore) AppendVotings(ctx context.Context, rows []rollcall.SummaryRow) error {
	ctx, span := tracer.Start(ctx, "AppendVotings")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	if len(rows) == 0 {
		span.SetStatus(codes.Error, ErrNoRows.Error())
		return ErrNoRows
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `insert into "Votings" (
		vote_id, date, title, procedure, leg_type, type_of_vote,
		voting_rule, rapporteur, rapporteur_mep_id, link, committee,
		policy_area, subject, final_vote, am_no, author, outcome,
		yes, no, abs
	) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.VoteID, nullDate(row.Date), row.Title, row.Procedure,
			row.LegType, row.TypeOfVote, row.VotingRule, row.Rapporteur,
			nullID(row.RapporteurMepID), row.Link, row.Committee,
			row.PolicyArea, row.Subject, nullTri(row.FinalVote),
			row.AmNo, row.Author, nullTri(row.Outcome),
			row.Yes, row.No, row.Abs,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("voting %d: %w", row.VoteID, err)
		}
	}
	return tx.Commit()
}

func (s PostgresStore) AppendBallots(ctx context.Context, rows []rollcall.BallotRow) error {
	ctx, span := tracer.Start(ctx, "AppendBallots")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	if len(rows) == 0 {
		span.SetStatus(codes.Error, ErrNoRows.Error())
		return ErrNoRows
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`insert into "Votes" (vote_id, mep_id, vote) values ($1, $2, $3)`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx, row.VoteID, row.MemberID, int(row.Outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("ballot %d/%d: %w", row.VoteID, row.MemberID, err)
		}
	}
	return tx.Commit()
}

func (s PostgresStore) ReplaceMembers(ctx context.Context, rows []rollcall.MemberInfoRow) error {
	ctx, span := tracer.Start(ctx, "ReplaceMembers")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	if len(rows) == 0 {
		span.SetStatus(codes.Error, ErrNoRows.Error())
		return ErrNoRows
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from "Mep_info"`); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `insert into "Mep_info" (
		mep_id, given_name, family_name, full_name, birthday, gender, country
	) values ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.MemberID, row.GivenName, row.FamilyName, row.FullName,
			nullDate(row.Birthday), row.Gender, row.Country,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("member %d: %w", row.MemberID, err)
		}
	}
	return tx.Commit()
}

func (s PostgresStore) ReplaceMemberships(ctx context.Context, rows []rollcall.MembershipTableRow) error {
	ctx, span := tracer.Start(ctx, "ReplaceMemberships")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	if len(rows) == 0 {
		span.SetStatus(codes.Error, ErrNoRows.Error())
		return ErrNoRows
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from "Memberships"`); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `insert into "Memberships" (
		mep_id, org_id, classification, label, start_date, end_date
	) values ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		var end any
		if row.End.Kind == rollcall.EndClosed {
			end = row.End.Date
		}
		_, err := stmt.ExecContext(ctx,
			row.MemberID, row.OrgID, row.Classification, row.Label,
			nullDate(row.Start), end,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("membership %d/%s: %w", row.MemberID, row.OrgID, err)
		}
	}
	return tx.Commit()
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullTri(t rollcall.Tri) any {
	switch t {
	case rollcall.TriTrue:
		return true
	case rollcall.TriFalse:
		return false
	}
	return nil
}
