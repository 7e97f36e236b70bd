package recipe

import (
	"net/http"
	"strconv"
	"strings"

	"foodgram/internal/domain"
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
	api.GET("/recipes", h.List)
	api.GET("/recipes/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/recipes", h.Create)
	protected.PATCH("/recipes/:id", h.Update)
	protected.DELETE("/recipes/:id", h.Delete)

	protected.GET("/recipes/favorites", h.Favorites)
	protected.POST("/recipes/:id/favorite", h.relationAdd(domain.KindFavorite))
	protected.DELETE("/recipes/:id/favorite", h.relationRemove(domain.KindFavorite))
	protected.POST("/recipes/:id/shopping_cart", h.relationAdd(domain.KindShoppingCart))
	protected.DELETE("/recipes/:id/shopping_cart", h.relationRemove(domain.KindShoppingCart))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe id")
		return 0, false
	}
	return id, true
}

func queryFlag(c *gin.Context, name string) bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(name)))
	return v == "1" || v == "true"
}

// List возвращает рецепты, новые сверху.
// @Summary		Список рецептов
// @Tags		Рецепты
// @Param		tags				query	[]string	false	"slug тега, можно несколько"
// @Param		author				query	int			false	"ID автора"
// @Param		is_favorited		query	int			false	"1: только избранное"
// @Param		is_in_shopping_cart	query	int			false	"1: только из корзины"
// @Success		200	{object}	map[string]interface{}
// @Router		/recipes [GET]
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	for _, slug := range c.QueryArray("tags") {
		if slug = strings.TrimSpace(slug); slug != "" {
			q.Tags = append(q.Tags, slug)
		}
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || authorID <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "author must be a positive integer")
			return
		}
		q.AuthorID = authorID
	}

	recipes, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipes)
}

// Get возвращает рецепт.
// @Summary		Рецепт
// @Tags		Рецепты
// @Param		id	path	int	true	"ID рецепта"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/recipes/{id} [GET]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	recipe, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Create публикует рецепт.
// @Summary		Создать рецепт
// @Tags		Рецепты
// @Security	BearerAuth
// @Param		request	body	CreateRecipeRequest	true	"Рецепт, image в виде base64 data URI"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{} "Ингредиент или тег не найден"
// @Router		/recipes [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipe)
}

// Update изменяет рецепт. Доступно только автору.
// @Summary		Обновить рецепт
// @Tags		Рецепты
// @Security	BearerAuth
// @Param		id		path	int					true	"ID рецепта"
// @Param		request	body	UpdateRecipeRequest	true	"Новые данные рецепта"
// @Success		200	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{}
// @Router		/recipes/{id} [PATCH]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Delete удаляет рецепт. Доступно только автору.
// @Summary		Удалить рецепт
// @Tags		Рецепты
// @Security	BearerAuth
// @Param		id	path	int	true	"ID рецепта"
// @Success		204
// @Failure		403	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/recipes/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

// Favorites возвращает избранные рецепты текущего пользователя.
// @Summary		Избранное
// @Tags		Рецепты
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/recipes/favorites [GET]
func (h *Handler) Favorites(c *gin.Context) {
	recipes, err := h.service.Favorites(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipes)
}

// relationAdd handles POST /recipes/:id/{favorite,shopping_cart}.
func (h *Handler) relationAdd(kind domain.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		short, err := h.service.AddTo(c.Request.Context(), kind, c.GetInt64("user_id"), id)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, short)
	}
}

func (h *Handler) relationRemove(kind domain.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := h.service.RemoveFrom(c.Request.Context(), kind, c.GetInt64("user_id"), id); err != nil {
			response.FromError(c, err)
			return
		}
		response.NoContent(c)
	}
}
