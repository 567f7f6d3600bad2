// Package hemicycle extracts the seat-to-member mapping from the
// rendered chamber page. The page draws one svg circle per seat with
// the seat id and the occupying member's id as attributes.
package hemicycle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"epvote-monitor/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/hemicycle")

const ChamberURL = "https://www.europarl.europa.eu/meps/en/search/chamber"

// Renderer produces the final HTML of a page. The chamber page draws
// its seat map with javascript, so a real deployment injects a
// headless-browser implementation; the default resty renderer is good
// enough for server-rendered snapshots and for tests.
type Renderer interface {
	Render(ctx context.Context, url string) (html string, err error)
}

type restyRenderer struct {
	http *resty.Client
}

func NewRestyRenderer() Renderer {
	client := resty.New()
	client.SetTimeout(time.Second * 60)
	telemetry.InstrumentResty(client, "scrapers/hemicycle/http")
	return restyRenderer{http: client}
}

func (r restyRenderer) Render(ctx context.Context, url string) (string, error) {
	res, err := r.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("fetch %s: status %d", url, res.StatusCode())
	}
	return res.String(), nil
}

// SeatMap is an opaque lookup table: member id to seat id.
type SeatMap map[int64]string

// Scrape renders the chamber page and collects the seat circles.
// Circles without a member id are empty seats and are skipped.
func Scrape(ctx context.Context, renderer Renderer) (SeatMap, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	html, err := renderer.Render(ctx, ChamberURL)
	if err != nil {
		return nil, err
	}
	return ParseSeatMap(html)
}

func ParseSeatMap(html string) (SeatMap, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seats := SeatMap{}
	doc.Find("circle").Each(func(_ int, sel *goquery.Selection) {
		seatID, ok := sel.Attr("id")
		if !ok {
			return
		}
		mepAttr, ok := sel.Attr("data-id-mep")
		if !ok {
			return
		}
		mepID, err := strconv.ParseInt(mepAttr, 10, 64)
		if err != nil || mepID <= 0 {
			return
		}
		seats[mepID] = seatID
	})
	return seats, nil
}
