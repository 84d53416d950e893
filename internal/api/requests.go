package api

import (
	"context"
	"net/url"

	"contractor_connect/internal/gateway"
	"contractor_connect/internal/model"
)

// RequestQuery narrows a request listing. Empty fields are not sent.
type RequestQuery struct {
	PageQuery
	Status   string
	Category string
	City     string
	State    string
}

func (q RequestQuery) values() url.Values {
	v := q.PageQuery.values()
	setIfNotEmpty(v, "status", q.Status)
	setIfNotEmpty(v, "category", q.Category)
	setIfNotEmpty(v, "city", q.City)
	setIfNotEmpty(v, "state", q.State)
	return v
}

// RequestsAPI wraps the /requests endpoints
type RequestsAPI struct {
	gw Gateway
}

// ListMine lists the society's own requests
func (r *RequestsAPI) ListMine(ctx context.Context, q RequestQuery) (model.Page[model.WorkRequest], error) {
	return listPage(ctx, r.gw, "/requests/my-requests", q.PageQuery, q.values(), requestItems)
}

// ListBrowse lists open requests; any Status in q is replaced
func (r *RequestsAPI) ListBrowse(ctx context.Context, q RequestQuery) (model.Page[model.WorkRequest], error) {
	q.Status = model.RequestStatusOpen
	return listPage(ctx, r.gw, "/requests/browse", q.PageQuery, q.values(), requestItems)
}

// ListAssigned lists requests assigned to the calling contractor
func (r *RequestsAPI) ListAssigned(ctx context.Context, q RequestQuery) (model.Page[model.WorkRequest], error) {
	return listPage(ctx, r.gw, "/requests/assigned", q.PageQuery, q.values(), requestItems)
}

func (r *RequestsAPI) Get(ctx context.Context, id string) (*model.WorkRequest, error) {
	var wr model.WorkRequest
	if err := r.gw.Get(ctx, "/requests/"+url.PathEscape(id), nil, &wr); err != nil {
		return nil, err
	}
	return &wr, nil
}

func (r *RequestsAPI) Create(ctx context.Context, input model.CreateRequestInput) (*model.WorkRequest, error) {
	var wr model.WorkRequest
	if err := r.gw.Post(ctx, "/requests", input, &wr); err != nil {
		return nil, err
	}
	return &wr, nil
}

func (r *RequestsAPI) Update(ctx context.Context, id string, input model.UpdateRequestInput) (*model.WorkRequest, error) {
	var wr model.WorkRequest
	if err := r.gw.Put(ctx, "/requests/"+url.PathEscape(id), input, &wr); err != nil {
		return nil, err
	}
	return &wr, nil
}

func (r *RequestsAPI) Cancel(ctx context.Context, id string) (*model.WorkRequest, error) {
	var wr model.WorkRequest
	if err := r.gw.Post(ctx, "/requests/"+url.PathEscape(id)+"/cancel", nil, &wr); err != nil {
		return nil, err
	}
	return &wr, nil
}

func (r *RequestsAPI) Delete(ctx context.Context, id string) error {
	return r.gw.Delete(ctx, "/requests/"+url.PathEscape(id))
}

// UploadImages attaches images to a request and returns their URLs
func (r *RequestsAPI) UploadImages(ctx context.Context, id string, files []gateway.File) ([]string, error) {
	var resp struct {
		URLs []string `json:"urls"`
	}
	if err := r.gw.Upload(ctx, "/requests/"+url.PathEscape(id)+"/images", "images", files, &resp); err != nil {
		return nil, err
	}
	return resp.URLs, nil
}
