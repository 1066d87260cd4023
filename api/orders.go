package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/middleware"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/orders"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service orders.OrderUseCase
}

// ticketRequest accepts the seat row as "rows" and as "row".
type ticketRequest struct {
	Rows   *int   `json:"rows"`
	Row    *int   `json:"row"`
	Seat   *int   `json:"seat"`
	Flight *int64 `json:"flight"`
}

type createOrderRequest struct {
	Tickets []ticketRequest `json:"tickets"`
}

type ticketResponse struct {
	ID     int64 `json:"id"`
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
	Flight int64 `json:"flight"`
}

type ticketDetailResponse struct {
	ticketResponse
	Order int64 `json:"order"`
}

type orderResponse struct {
	ID        int64            `json:"id"`
	Status    string           `json:"status"`
	Tickets   []ticketResponse `json:"tickets"`
	CreatedAt string           `json:"created_at"`
}

func NewOrderHandler(service orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router gin.IRoutes, create ...gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", append(create, h.create)...)
	router.DELETE("/:id", h.delete)
}

// RegisterTickets serves the caller's tickets read-only.
func (h *OrderHandler) RegisterTickets(router gin.IRoutes) {
	router.GET("", h.listTickets)
}

func (h *OrderHandler) create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	tickets := make([]domain.TicketRequest, 0, len(req.Tickets))
	for i, t := range req.Tickets {
		row := t.Rows
		if row == nil {
			row = t.Row
		}
		missing := map[string][]string{}
		if row == nil {
			missing[seating.FieldRow] = []string{"this field is required"}
		}
		if t.Seat == nil {
			missing[seating.FieldSeat] = []string{"this field is required"}
		}
		if t.Flight == nil {
			missing[seating.FieldFlight] = []string{"this field is required"}
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"tickets": gin.H{strconv.Itoa(i): missing}})
			return
		}
		tickets = append(tickets, domain.TicketRequest{FlightID: *t.Flight, Row: *row, Seat: *t.Seat})
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, tickets)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	list, err := h.service.ListOrders(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]orderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toOrderResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) listTickets(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	tickets, err := h.service.ListTickets(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]ticketDetailResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, ticketDetailResponse{
			ticketResponse: ticketResponse{ID: t.ID, Row: t.Row, Seat: t.Seat, Flight: t.FlightID},
			Order:          t.OrderID,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func toOrderResponse(o *domain.Order) orderResponse {
	tickets := make([]ticketResponse, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		tickets = append(tickets, ticketResponse{ID: t.ID, Row: t.Row, Seat: t.Seat, Flight: t.FlightID})
	}
	return orderResponse{
		ID:        o.ID,
		Status:    string(o.Status),
		Tickets:   tickets,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}
