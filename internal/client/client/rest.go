package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Values renders q as query parameters for the REST data endpoint.
func (q Query) Values() url.Values {
	v := url.Values{}
	cols := q.Columns
	if cols == "" {
		cols = "*"
	}
	v.Set("select", cols)
	for _, f := range q.Eq {
		v.Add(f.Column, "eq."+f.Value)
	}
	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		v.Set("order", q.Order.Column+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Select decodes the matching rows, a JSON array, into dest.
func (c *HTTPClient) Select(ctx context.Context, accessToken string, q Query, dest any) error {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   restPath + "/" + url.PathEscape(q.Table),
		query:  q.Values(),
		token:  accessToken,
	}, dest)
}

func (c *HTTPClient) Invoke(ctx context.Context, accessToken, name string, body, dest any) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   functionsPath + "/" + url.PathEscape(name),
		token:  accessToken,
		body:   body,
	}, dest)
}
