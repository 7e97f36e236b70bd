package user

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

// RegisterPublicRoutes expects a group with optional authentication.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/users", h.List)
	api.GET("/users/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.Me)
	protected.GET("/users/subscriptions", h.Subscriptions)
	protected.POST("/users/:id/subscribe", h.Subscribe)
	protected.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// parseID reads a positive int64 path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "recipes_limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// List возвращает пользователей.
// @Summary		Список пользователей
// @Tags		Пользователи
// @Success		200	{object}	map[string]interface{}
// @Router		/users [GET]
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// Get возвращает профиль пользователя.
// @Summary		Профиль пользователя
// @Tags		Пользователи
// @Param		id	path	int	true	"ID пользователя"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/users/{id} [GET]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	u, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Me возвращает текущего пользователя.
// @Summary		Текущий пользователь
// @Tags		Пользователи
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/users/me [GET]
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")

	u, err := h.service.Get(c.Request.Context(), userID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Subscriptions возвращает авторов, на которых подписан пользователь.
// @Summary		Мои подписки
// @Tags		Пользователи
// @Security	BearerAuth
// @Param		recipes_limit	query	int	false	"Сколько рецептов автора показать"
// @Success		200	{object}	map[string]interface{}
// @Router		/users/subscriptions [GET]
func (h *Handler) Subscriptions(c *gin.Context) {
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	subs, err := h.service.Subscriptions(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, subs)
}

// Subscribe подписывает на автора.
// @Summary		Подписаться
// @Tags		Пользователи
// @Security	BearerAuth
// @Param		id	path	int	true	"ID автора"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "Уже подписан или подписка на себя"
// @Failure		404	{object}	map[string]interface{}
// @Router		/users/{id}/subscribe [POST]
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), c.GetInt64("user_id"), authorID, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// Unsubscribe отменяет подписку.
// @Summary		Отписаться
// @Tags		Пользователи
// @Security	BearerAuth
// @Param		id	path	int	true	"ID автора"
// @Success		204
// @Failure		404	{object}	map[string]interface{}
// @Router		/users/{id}/subscribe [DELETE]
func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), c.GetInt64("user_id"), authorID); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
