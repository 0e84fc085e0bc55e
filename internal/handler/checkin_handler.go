package handler

import (
	"errors"
	"net/http"

	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/qrpayload"
	"go-gin-ticket-gate/internal/service"
	apperrors "go-gin-ticket-gate/pkg/app_errors"
	"go-gin-ticket-gate/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckInHandler struct {
	service service.CheckInService
}

func NewCheckInHandler(service service.CheckInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

func (h *CheckInHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("checkin/scan", h.Scan)
	}

	// QR code 直接指向這裡
	r.GET("/"+qrpayload.PathPrefix+"/*path", h.Lookup)
	r.POST("/"+qrpayload.PathPrefix+"/*path", h.CheckIn)
}

// ScanRequest 掃描器送來的 QR code 原始內容
type ScanRequest struct {
	Payload string `json:"payload" binding:"required"`
}

func (h *CheckInHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	result, err := h.service.Scan(c, req.Payload)
	h.respond(c, result, err, "Scan")
}

func (h *CheckInHandler) CheckIn(c *gin.Context) {
	ref, err := qrpayload.ParsePath("/" + qrpayload.PathPrefix + c.Param("path"))
	if err != nil {
		handleError(c, err, "CheckIn")
		return
	}
	result, err := h.service.CheckIn(c, ref)
	h.respond(c, result, err, "CheckIn")
}

func (h *CheckInHandler) Lookup(c *gin.Context) {
	ref, err := qrpayload.ParsePath("/" + qrpayload.PathPrefix + c.Param("path"))
	if err != nil {
		handleError(c, err, "Lookup")
		return
	}
	ticket, err := h.service.Lookup(c, ref)
	if err != nil {
		handleError(c, err, "Lookup")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticket": ticket,
		"status": ticket.EffectiveStatus(),
	})
}

// respond 已使用時回 409 並附上票券，讓現場看到是誰的票
func (h *CheckInHandler) respond(c *gin.Context, result *model.CheckInResult, err error, operation string) {
	if errors.Is(err, apperrors.ErrAlreadyUsed) && result != nil {
		logger.WithComponent("handler").Warn("Ticket already used",
			zap.String("operation", operation),
			zap.String("ticket_id", result.Ticket.TicketID))
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Ticket already used",
			"result": result,
		})
		return
	}
	if err != nil {
		handleError(c, err, operation)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
