// Package europarl talks to the European Parliament open-data API
// (data.europarl.europa.eu) and the plenary minutes documents on
// www.europarl.europa.eu. Responses are normalized into flat records;
// identifier URIs like "person/124810" are reduced to numeric ids at
// this layer so the core never sees placeholder values.
package europarl

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"epvote-monitor/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/europarl")

const (
	DataBaseURL  = "https://data.europarl.europa.eu/api/v2"
	DoceoBaseURL = "https://www.europarl.europa.eu/doceo/document"

	ldJSONFormat = "application/ld+json"
)

type Client struct {
	http *resty.Client
}

func NewClient() (*Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("accept", ldJSONFormat)
	client.SetTimeout(time.Second * 60)

	telemetry.InstrumentResty(client, "scrapers/europarl/http")

	return &Client{http: client}, nil
}

type apiEnvelope[T any] struct {
	Data []T `json:"data"`
}

// getData fetches an open-data endpoint and unpacks its "data" array.
// A 204 is a legitimate empty result, not an error.
func getData[T any](ctx context.Context, c *Client, url string) ([]T, error) {
	var envelope apiEnvelope[T]
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("format", ldJSONFormat).
		SetResult(&envelope).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.StatusCode() == 204 {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", url, res.StatusCode())
	}
	return envelope.Data, nil
}
