package europarl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const sittingPrefix = "MTG-PL-"

type meetingDoc struct {
	ActivityID           string       `json:"activity_id"`
	ActivityDate         string       `json:"activity_date"`
	HadExcusedPerson     stringOrList `json:"had_excused_person"`
	HadParticipantPerson stringOrList `json:"had_participant_person"`
}

// Sittings lists the plenary meeting days of a year. Rows whose
// activity id does not carry a parseable date are skipped.
func (c *Client) Sittings(ctx context.Context, year int) ([]Sitting, error) {
	ctx, span := tracer.Start(ctx, "Sittings")
	defer span.End()

	url := fmt.Sprintf("%s/meetings?year=%d&offset=0", DataBaseURL, year)
	docs, err := getData[meetingDoc](ctx, c, url)
	if err != nil {
		return nil, err
	}

	var out []Sitting
	for _, doc := range docs {
		date, err := ParseDate(strings.TrimPrefix(doc.ActivityID, sittingPrefix))
		if err != nil {
			slog.WarnContext(ctx, "skipping meeting with unparseable activity id", "activity_id", doc.ActivityID)
			continue
		}
		out = append(out, Sitting{ActivityID: doc.ActivityID, Date: date})
	}
	return out, nil
}

// Attendance fetches the excused/participant lists recorded for one
// sitting day.
func (c *Client) Attendance(ctx context.Context, date time.Time) (Attendance, error) {
	ctx, span := tracer.Start(ctx, "Attendance")
	defer span.End()

	day := date.Format("2006-01-02")
	url := fmt.Sprintf("%s/meetings/%s%s?language=en", DataBaseURL, sittingPrefix, day)
	docs, err := getData[meetingDoc](ctx, c, url)
	if err != nil {
		return Attendance{}, err
	}
	if len(docs) == 0 {
		return Attendance{Date: date}, nil
	}

	return Attendance{
		Date:         date,
		Excused:      personIDs(docs[0].HadExcusedPerson),
		Participants: personIDs(docs[0].HadParticipantPerson),
	}, nil
}
