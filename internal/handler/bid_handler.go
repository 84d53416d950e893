package handler

import (
	"errors"
	"io"
	"net/http"

	"contractor_connect/internal/model"
	"contractor_connect/internal/service"

	"github.com/gin-gonic/gin"
)

// BidHandler handles bid endpoints, including the bid views nested under requests
type BidHandler struct {
	service service.BidService
}

// NewBidHandler creates a new BidHandler
func NewBidHandler(s service.BidService) *BidHandler {
	return &BidHandler{service: s}
}

func bidList(bids []model.Bid, total, skip, limit int) model.BidList {
	if bids == nil {
		bids = []model.Bid{}
	}
	return model.BidList{Bids: bids, Total: total, Skip: skip, Limit: limit}
}

func (h *BidHandler) SubmitBid(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	var req model.SubmitBidInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	bid, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to submit bid")
		return
	}
	c.JSON(http.StatusCreated, bid)
}

func (h *BidHandler) GetMyBids(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}
	skip, limit, err := parseSkipLimit(c)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	bids, total, err := h.service.ListMine(c.Request.Context(), userID, optionalQuery(c, "status"), skip, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve bids")
		return
	}
	c.JSON(http.StatusOK, bidList(bids, total, skip, limit))
}

func (h *BidHandler) GetRequestBids(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}
	skip, limit, err := parseSkipLimit(c)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	bids, total, err := h.service.ListForRequest(c.Request.Context(), id, userID, role, skip, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve bids")
		return
	}
	c.JSON(http.StatusOK, bidList(bids, total, skip, limit))
}

func (h *BidHandler) GetBidByID(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrBidNotFound)
	if !ok {
		return
	}

	bid, err := h.service.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err, "Failed to retrieve bid")
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) UpdateBid(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	var req model.UpdateBidInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	id, ok := pathID(c, service.ErrBidNotFound)
	if !ok {
		return
	}

	bid, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update bid")
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) AcceptBid(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrBidNotFound)
	if !ok {
		return
	}

	bid, err := h.service.Accept(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err, "Failed to accept bid")
		return
	}
	c.JSON(http.StatusOK, bid)
}

// RejectBid takes an optional {"reason"}; an empty body is allowed
func (h *BidHandler) RejectBid(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}

	var req model.RejectBidInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindingError(c, err)
		return
	}

	id, ok := pathID(c, service.ErrBidNotFound)
	if !ok {
		return
	}

	bid, err := h.service.Reject(c.Request.Context(), id, userID, role, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject bid")
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) WithdrawBid(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrBidNotFound)
	if !ok {
		return
	}

	bid, err := h.service.Withdraw(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to withdraw bid")
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) DeleteBid(c *gin.Context) {
	userID, _, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrBidNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete bid")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BidHandler) GetBidStatistics(c *gin.Context) {
	userID, role, ok := authIdentity(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrRequestNotFound)
	if !ok {
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err, "Failed to retrieve bid statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterBidRoutes registers /bids and the bid views under /requests/:id
func (h *BidHandler) RegisterBidRoutes(rg *gin.RouterGroup, authMW, societyMW, contractorMW gin.HandlerFunc) {
	bids := rg.Group("/bids", authMW)
	{
		bids.POST("", contractorMW, h.SubmitBid)
		bids.GET("/my-bids", contractorMW, h.GetMyBids)
		bids.GET("/:id", h.GetBidByID)
		bids.PUT("/:id", contractorMW, h.UpdateBid)
		bids.POST("/:id/accept", societyMW, h.AcceptBid)
		bids.POST("/:id/reject", societyMW, h.RejectBid)
		bids.POST("/:id/withdraw", contractorMW, h.WithdrawBid)
		bids.DELETE("/:id", contractorMW, h.DeleteBid)
	}

	requestBids := rg.Group("/requests", authMW, societyMW)
	{
		requestBids.GET("/:id/bids", h.GetRequestBids)
		requestBids.GET("/:id/bid-statistics", h.GetBidStatistics)
	}
}
