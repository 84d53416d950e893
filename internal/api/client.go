package api

import (
	"context"
	"net/url"
	"strconv"

	"contractor_connect/internal/gateway"
	"contractor_connect/internal/model"
)

// Gateway is the transport every domain function goes through
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
	Upload(ctx context.Context, path, field string, files []gateway.File, out any) error
}

// Client groups the domain functions by resource
type Client struct {
	Auth     *AuthAPI
	Users    *UsersAPI
	Requests *RequestsAPI
	Bids     *BidsAPI
}

func New(gw Gateway) *Client {
	return &Client{
		Auth:     &AuthAPI{gw: gw},
		Users:    &UsersAPI{gw: gw},
		Requests: &RequestsAPI{gw: gw},
		Bids:     &BidsAPI{gw: gw},
	}
}

// PageQuery selects one page of a listing. Page is 1-based.
type PageQuery struct {
	Page     int
	PageSize int
}

func (q PageQuery) normalized() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = model.DefaultPageSize
	}
	return q
}

// values converts to the backend's skip/limit paging
func (q PageQuery) values() url.Values {
	q = q.normalized()
	v := url.Values{}
	v.Set("skip", strconv.Itoa((q.Page-1)*q.PageSize))
	v.Set("limit", strconv.Itoa(q.PageSize))
	return v
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// listPage runs a list read. A 404 means nothing to list, not a failure.
func listPage[W, T any](ctx context.Context, gw Gateway, path string, q PageQuery, query url.Values, items func(W) ([]T, int, int, int)) (model.Page[T], error) {
	q = q.normalized()
	var wire W
	if err := gw.Get(ctx, path, query, &wire); err != nil {
		if gateway.IsKind(err, gateway.KindNotFound) {
			return model.EmptyPage[T](q.Page, q.PageSize), nil
		}
		return model.Page[T]{}, err
	}
	list, total, skip, limit := items(wire)
	return model.NewPage(list, total, skip, limit), nil
}

func requestItems(l model.RequestList) ([]model.WorkRequest, int, int, int) {
	return l.Requests, l.Total, l.Skip, l.Limit
}

func bidItems(l model.BidList) ([]model.Bid, int, int, int) {
	return l.Bids, l.Total, l.Skip, l.Limit
}
