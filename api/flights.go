package api

import (
	"net/http"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	RouteID       int64     `json:"route_id" binding:"required,gt=0"`
	AirplaneID    int64     `json:"airplane_id" binding:"required,gt=0"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required,gtfield=DepartureTime"`
	CrewIDs       []int64   `json:"crew_ids" binding:"omitempty,dive,gt=0"`
}

type flightListItem struct {
	ID               int64  `json:"id"`
	Route            string `json:"route"`
	AirplaneName     string `json:"airplane_name"`
	AirplaneCapacity int    `json:"airplane_capacity"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	TicketsAvailable int    `json:"tickets_available"`
}

type flightDetailResponse struct {
	ID               int64            `json:"id"`
	Route            routeResponse    `json:"route"`
	Airplane         airplaneResponse `json:"airplane"`
	DepartureTime    string           `json:"departure_time"`
	ArrivalTime      string           `json:"arrival_time"`
	Crew             []crewResponse   `json:"crew"`
	TicketsAvailable int              `json:"tickets_available"`
	TakenPlaces      []domain.Seat    `json:"taken_places"`
}

type flightResponse struct {
	ID            int64  `json:"id"`
	RouteID       int64  `json:"route_id"`
	AirplaneID    int64  `json:"airplane_id"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router gin.IRoutes, admin ...gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", append(admin, h.create)...)
	router.DELETE("/:id", append(admin, h.delete)...)
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]flightListItem, 0, len(list))
	for _, f := range list {
		resp = append(resp, flightListItem{
			ID:               f.ID,
			Route:            f.Route.Short(),
			AirplaneName:     f.Airplane.Name,
			AirplaneCapacity: f.Airplane.Capacity(),
			DepartureTime:    f.DepartureTime.Format(time.RFC3339),
			ArrivalTime:      f.ArrivalTime.Format(time.RFC3339),
			TicketsAvailable: f.TicketsAvailable,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	crew := make([]crewResponse, 0, len(detail.Crew))
	for _, m := range detail.Crew {
		crew = append(crew, toCrewResponse(m))
	}
	c.JSON(http.StatusOK, flightDetailResponse{
		ID:               detail.ID,
		Route:            toRouteResponse(detail.Route),
		Airplane:         toAirplaneResponse(detail.Airplane),
		DepartureTime:    detail.DepartureTime.Format(time.RFC3339),
		ArrivalTime:      detail.ArrivalTime.Format(time.RFC3339),
		Crew:             crew,
		TicketsAvailable: detail.TicketsAvailable,
		TakenPlaces:      detail.TakenPlaces,
	})
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	var input flights.CreateFlightInput
	if err := copier.Copy(&input, &req); err != nil {
		writeError(c, err)
		return
	}

	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flightResponse{
		ID:            flight.ID,
		RouteID:       flight.RouteID,
		AirplaneID:    flight.AirplaneID,
		DepartureTime: flight.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   flight.ArrivalTime.Format(time.RFC3339),
	})
}
