package api

import (
	"net/http"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AirportHandler struct {
	service catalog.CatalogUseCase
}

type airportRequest struct {
	Name           string `json:"name" binding:"required,notblank"`
	ClosestBigCity string `json:"closest_big_city" binding:"required,notblank"`
}

type airportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

func NewAirportHandler(service catalog.CatalogUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router gin.IRoutes, admin ...gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", append(admin, h.create)...)
	router.PUT("/:id", append(admin, h.update)...)
	router.DELETE("/:id", append(admin, h.delete)...)
}

func (h *AirportHandler) create(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	var airport domain.Airport
	if err := copier.Copy(&airport, &req); err != nil {
		writeError(c, err)
		return
	}
	created, err := h.service.CreateAirport(c.Request.Context(), airport)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airportResponse(*created))
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]airportResponse, 0, len(airports))
	for _, a := range airports {
		resp = append(resp, airportResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AirportHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	airport, err := h.service.GetAirport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airportResponse(*airport))
}

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	airport := domain.Airport{ID: id}
	if err := copier.Copy(&airport, &req); err != nil {
		writeError(c, err)
		return
	}
	updated, err := h.service.UpdateAirport(c.Request.Context(), airport)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airportResponse(*updated))
}

func (h *AirportHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAirport(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
