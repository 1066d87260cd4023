package api

import (
	"net/http"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AirplaneHandler struct {
	service catalog.CatalogUseCase
}

type airplaneTypeRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type airplaneTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type airplaneRequest struct {
	Name           string `json:"name" binding:"required,notblank"`
	Rows           int    `json:"rows" binding:"required,gte=1"`
	SeatsInRow     int    `json:"seats_in_row" binding:"required,gte=1"`
	AirplaneTypeID int64  `json:"airplane_type_id" binding:"required,gt=0"`
}

type airplaneResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Rows           int    `json:"rows"`
	SeatsInRow     int    `json:"seats_in_row"`
	AirplaneTypeID int64  `json:"airplane_type_id"`
	Capacity       int    `json:"capacity"`
}

func toAirplaneResponse(a domain.Airplane) airplaneResponse {
	return airplaneResponse{
		ID:             a.ID,
		Name:           a.Name,
		Rows:           a.Rows,
		SeatsInRow:     a.SeatsInRow,
		AirplaneTypeID: a.AirplaneTypeID,
		Capacity:       a.Capacity(),
	}
}

func NewAirplaneHandler(service catalog.CatalogUseCase) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) Register(router gin.IRoutes, admin ...gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", append(admin, h.create)...)
	router.DELETE("/:id", append(admin, h.delete)...)
}

func (h *AirplaneHandler) RegisterTypes(router gin.IRoutes, admin ...gin.HandlerFunc) {
	router.GET("", h.listTypes)
	router.GET("/:id", h.getType)
	router.POST("", append(admin, h.createType)...)
	router.PUT("/:id", append(admin, h.updateType)...)
	router.DELETE("/:id", append(admin, h.deleteType)...)
}

func (h *AirplaneHandler) createType(c *gin.Context) {
	var req airplaneTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.service.CreateAirplaneType(c.Request.Context(), domain.AirplaneType{Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airplaneTypeResponse(*created))
}

func (h *AirplaneHandler) listTypes(c *gin.Context) {
	types, err := h.service.ListAirplaneTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]airplaneTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, airplaneTypeResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AirplaneHandler) getType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.service.GetAirplaneType(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airplaneTypeResponse(*t))
}

func (h *AirplaneHandler) updateType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req airplaneTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	updated, err := h.service.UpdateAirplaneType(c.Request.Context(), domain.AirplaneType{ID: id, Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airplaneTypeResponse(*updated))
}

func (h *AirplaneHandler) deleteType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAirplaneType(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AirplaneHandler) create(c *gin.Context) {
	var req airplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	var airplane domain.Airplane
	if err := copier.Copy(&airplane, &req); err != nil {
		writeError(c, err)
		return
	}
	created, err := h.service.CreateAirplane(c.Request.Context(), airplane)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirplaneResponse(*created))
}

func (h *AirplaneHandler) list(c *gin.Context) {
	airplanes, err := h.service.ListAirplanes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]airplaneResponse, 0, len(airplanes))
	for _, a := range airplanes {
		resp = append(resp, toAirplaneResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AirplaneHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	airplane, err := h.service.GetAirplane(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirplaneResponse(*airplane))
}

// delete removes the airplane with its flights. Changing the grid of an
// airplane is not offered: it would move seats out from under sold tickets.
func (h *AirplaneHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAirplane(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
