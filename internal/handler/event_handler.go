package handler

import (
	"net/http"

	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
		router.GET("events/:uuid/stats", h.Stats)
		router.POST("events", h.Create)
		router.PUT("events/:uuid", h.UpdateByEventID)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title    string          `json:"title" binding:"required"`
	Dates    []string        `json:"dates"`
	Location string          `json:"location"`
	Price    decimal.Decimal `json:"price"`
	OneDrink bool            `json:"oneDrink"`
}

// UpdateEventRequest 只能改地點、票價、飲料
type UpdateEventRequest struct {
	Location *string          `json:"location"`
	Price    *decimal.Decimal `json:"price"`
	OneDrink *bool            `json:"oneDrink"`
}

type ListEventsQuery struct {
	CreatedBy string `form:"createdBy"`
}

func (h *EventHandler) List(c *gin.Context) {
	var query ListEventsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	events, err := h.service.List(c, query.CreatedBy)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	event := &model.Event{
		Title:     req.Title,
		Dates:     req.Dates,
		Location:  req.Location,
		Price:     req.Price,
		OneDrink:  req.OneDrink,
		CreatedBy: callerID(c),
	}
	created, err := h.service.Create(c, event)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := model.UpdateEventParams{
		Location: req.Location,
		Price:    req.Price,
		OneDrink: req.OneDrink,
	}
	if params.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one of location, price or oneDrink is required"})
		return
	}
	updated, err := h.service.UpdateByEventID(c, eventID, params)
	if err != nil {
		handleError(c, err, "UpdateByEventID")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Stats(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c, eventID)
	if err != nil {
		handleError(c, err, "EventStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
