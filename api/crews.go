package api

import (
	"net/http"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type CrewHandler struct {
	service catalog.CatalogUseCase
}

type crewRequest struct {
	FirstName string `json:"first_name" binding:"required,notblank"`
	LastName  string `json:"last_name" binding:"required,notblank"`
}

type crewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func toCrewResponse(c domain.Crew) crewResponse {
	return crewResponse{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: c.FullName()}
}

func NewCrewHandler(service catalog.CatalogUseCase) *CrewHandler {
	return &CrewHandler{service: service}
}

func (h *CrewHandler) Register(router gin.IRoutes, admin ...gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", append(admin, h.create)...)
	router.PUT("/:id", append(admin, h.update)...)
	router.DELETE("/:id", append(admin, h.delete)...)
}

func (h *CrewHandler) create(c *gin.Context) {
	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	var crew domain.Crew
	if err := copier.Copy(&crew, &req); err != nil {
		writeError(c, err)
		return
	}
	created, err := h.service.CreateCrew(c.Request.Context(), crew)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCrewResponse(*created))
}

func (h *CrewHandler) list(c *gin.Context) {
	crews, err := h.service.ListCrews(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]crewResponse, 0, len(crews))
	for _, m := range crews {
		resp = append(resp, toCrewResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CrewHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	crew, err := h.service.GetCrew(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCrewResponse(*crew))
}

func (h *CrewHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	crew := domain.Crew{ID: id}
	if err := copier.Copy(&crew, &req); err != nil {
		writeError(c, err)
		return
	}
	updated, err := h.service.UpdateCrew(c.Request.Context(), crew)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCrewResponse(*updated))
}

func (h *CrewHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCrew(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
