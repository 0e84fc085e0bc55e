package handler

import (
	"net/http"

	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/qrpayload"
	"go-gin-ticket-gate/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events/:uuid/tickets", h.List)
		router.POST("events/:uuid/tickets", h.Issue)
		router.GET("events/:uuid/tickets/:ticket_id", h.GetByTicketID)
		router.DELETE("events/:uuid/tickets/:ticket_id", h.DeleteByTicketID)
		router.GET("events/:uuid/tickets/:ticket_id/qr", h.QRCode)
		router.GET("events/:uuid/tickets/:ticket_id/qr.png", h.QRCodePNG)
	}

	admin := r.Group("/api/v1/admin")
	{
		admin.PUT("events/:uuid/tickets/:ticket_id/status", h.OverrideStatus)
	}
}

// IssueTicketRequest 發票請求
type IssueTicketRequest struct {
	Name     string `json:"name" binding:"required"`
	BandName string `json:"bandName"`
}

// OverrideStatusRequest status 為 未 或 済
type OverrideStatusRequest struct {
	Status model.TicketStatus `json:"status" binding:"required"`
}

type QRCodePNGQuery struct {
	Size int `form:"size" binding:"omitempty,min=64,max=1024"`
}

func (h *TicketHandler) List(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	tickets, err := h.service.ListByEvent(c, eventID)
	if err != nil {
		handleError(c, err, "ListTickets")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) Issue(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	var req IssueTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket := &model.Ticket{
		Name:      req.Name,
		BandName:  req.BandName,
		CreatedBy: callerID(c),
	}
	created, err := h.service.Issue(c, eventID, ticket)
	if err != nil {
		handleError(c, err, "IssueTicket")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TicketHandler) GetByTicketID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	ticket, err := h.service.GetByTicketID(c, eventID, c.Param("ticket_id"))
	if err != nil {
		handleError(c, err, "GetByTicketID")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) DeleteByTicketID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteByTicketID(c, eventID, c.Param("ticket_id")); err != nil {
		handleError(c, err, "DeleteByTicketID")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) OverrideStatus(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	var req OverrideStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket, err := h.service.OverrideStatus(c, eventID, c.Param("ticket_id"), req.Status)
	if err != nil {
		handleError(c, err, "OverrideStatus")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) QRCode(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	url, err := h.service.QRCode(c, eventID, c.Param("ticket_id"))
	if err != nil {
		handleError(c, err, "QRCode")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *TicketHandler) QRCodePNG(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	var query QRCodePNGQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	url, err := h.service.QRCode(c, eventID, c.Param("ticket_id"))
	if err != nil {
		handleError(c, err, "QRCodePNG")
		return
	}
	png, err := qrpayload.PNG(url, query.Size)
	if err != nil {
		handleError(c, err, "QRCodePNG")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
