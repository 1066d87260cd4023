package api

import (
	"net/http"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	service catalog.CatalogUseCase
}

type routeRequest struct {
	Source      int64 `json:"source" binding:"required,gt=0"`
	Destination int64 `json:"destination" binding:"required,gt=0,nefield=Source"`
	Distance    int   `json:"distance" binding:"required,gt=0"`
}

type routeResponse struct {
	ID          int64           `json:"id"`
	Source      airportResponse `json:"source"`
	Destination airportResponse `json:"destination"`
	Distance    int             `json:"distance"`
	FullRoute   string          `json:"full_route"`
}

type routeListItem struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
	Route       string `json:"route"`
}

func toRouteResponse(r domain.Route) routeResponse {
	return routeResponse{
		ID:          r.ID,
		Source:      airportResponse(r.Source),
		Destination: airportResponse(r.Destination),
		Distance:    r.Distance,
		FullRoute:   r.Description(),
	}
}

func NewRouteHandler(service catalog.CatalogUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router gin.IRoutes, admin ...gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", append(admin, h.create)...)
	router.PUT("/:id", append(admin, h.update)...)
	router.DELETE("/:id", append(admin, h.delete)...)
}

func (h *RouteHandler) create(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	route, err := h.service.CreateRoute(c.Request.Context(), req.Source, req.Destination, req.Distance)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRouteResponse(*route))
}

func (h *RouteHandler) list(c *gin.Context) {
	routes, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]routeListItem, 0, len(routes))
	for _, r := range routes {
		resp = append(resp, routeListItem{
			ID:          r.ID,
			Source:      r.Source.Name,
			Destination: r.Destination.Name,
			Distance:    r.Distance,
			Route:       r.Short(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RouteHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	route, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(*route))
}

func (h *RouteHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	route, err := h.service.UpdateRoute(c.Request.Context(), id, req.Source, req.Destination, req.Distance)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(*route))
}

func (h *RouteHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRoute(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
