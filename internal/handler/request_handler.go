package handler

import (
	"net/http"

	"contractor_connect/internal/model"
	"contractor_connect/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestHandler handles work request endpoints
type RequestHandler struct {
	service service.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(s service.RequestService) *RequestHandler {
	return &RequestHandler{service: s}
}

func requestList(requests []model.WorkRequest, total, skip, limit int) model.RequestList {
	if requests == nil {
		requests = []model.WorkRequest{}
	}
	return model.RequestList{Requests: requests, Total: total, Skip: skip, Limit: limit}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	var req model.CreateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	wr, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create request")
		return
	}
	c.JSON(http.StatusCreated, wr)
}

// BrowseRequests lists requests from every society, open ones unless a status is given
func (h *RequestHandler) BrowseRequests(c *gin.Context) {
	skip, limit, err := parseSkipLimit(c)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	filters := model.RequestFilters{
		Status:   optionalQuery(c, "status"),
		Category: optionalQuery(c, "category"),
		City:     optionalQuery(c, "city"),
		State:    optionalQuery(c, "state"),
		Skip:     skip,
		Limit:    limit,
	}
	requests, total, err := h.service.Browse(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err, "Failed to retrieve requests")
		return
	}
	c.JSON(http.StatusOK, requestList(requests, total, skip, limit))
}

func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}
	skip, limit, err := parseSkipLimit(c)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	requests, total, err := h.service.ListMine(c.Request.Context(), userID, optionalQuery(c, "status"), skip, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve requests")
		return
	}
	c.JSON(http.StatusOK, requestList(requests, total, skip, limit))
}

func (h *RequestHandler) GetAssignedRequests(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}
	skip, limit, err := parseSkipLimit(c)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	requests, total, err := h.service.ListAssigned(c.Request.Context(), userID, skip, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve requests")
		return
	}
	c.JSON(http.StatusOK, requestList(requests, total, skip, limit))
}

func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	wr, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve request")
		return
	}
	c.JSON(http.StatusOK, wr)
}

func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	var req model.UpdateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	wr, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update request")
		return
	}
	c.JSON(http.StatusOK, wr)
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	wr, err := h.service.Cancel(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err, "Failed to cancel request")
		return
	}
	c.JSON(http.StatusOK, wr)
}

func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID, role); err != nil {
		respondError(c, err, "Failed to delete request")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImages accepts multipart field "images", one or more files
func (h *RequestHandler) UploadImages(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Images are required as multipart field 'images'"})
		return
	}

	urls, err := h.service.UploadImages(c.Request.Context(), id, userID, form.File["images"])
	if err != nil {
		respondError(c, err, "Failed to upload images")
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// RegisterRequestRoutes registers work request routes
func (h *RequestHandler) RegisterRequestRoutes(rg *gin.RouterGroup, authMW, societyMW, contractorMW gin.HandlerFunc) {
	requests := rg.Group("/requests", authMW)
	{
		requests.POST("", societyMW, h.CreateRequest)
		requests.GET("/browse", h.BrowseRequests)
		requests.GET("/my-requests", societyMW, h.GetMyRequests)
		requests.GET("/assigned", contractorMW, h.GetAssignedRequests)
		requests.GET("/:id", h.GetRequestByID)
		requests.PUT("/:id", societyMW, h.UpdateRequest)
		requests.POST("/:id/cancel", societyMW, h.CancelRequest)
		requests.DELETE("/:id", societyMW, h.DeleteRequest)
		requests.POST("/:id/images", societyMW, h.UploadImages)
	}
}
