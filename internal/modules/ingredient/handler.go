package ingredient

import (
	"net/http"
	"strconv"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/ingredients", h.List)
	api.GET("/ingredients/:id", h.Get)
}

// List ищет ингредиенты по началу названия.
// @Summary		Список ингредиентов
// @Tags		Ингредиенты
// @Param		name	query	string	false	"Начало названия, без учёта регистра"
// @Success		200	{object}	map[string]interface{}
// @Router		/ingredients [GET]
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Get возвращает ингредиент по ID.
// @Summary		Ингредиент
// @Tags		Ингредиенты
// @Param		id	path	int	true	"ID ингредиента"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/ingredients/{id} [GET]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ingredient id")
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}
