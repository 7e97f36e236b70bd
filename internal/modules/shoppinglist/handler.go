package shoppinglist

import (
	"fmt"
	"net/http"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects an authenticated group.
func (h *Handler) RegisterRoutes(recipes *gin.RouterGroup) {
	recipes.GET("/download_shopping_cart", h.Download)
}

// Download отдаёт список покупок текстовым файлом.
// @Summary		Скачать список покупок
// @Description	Суммирует ингредиенты всех рецептов из корзины текущего пользователя.
// @Tags		Рецепты
// @Security	BearerAuth
// @Produce		plain
// @Success		200	{string}	string	"Текстовый файл со списком покупок"
// @Failure		401	{object}	map[string]interface{}
// @Router		/recipes/download_shopping_cart [GET]
func (h *Handler) Download(c *gin.Context) {
	userID := c.GetInt64("user_id")

	filename, body, err := h.service.Download(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
