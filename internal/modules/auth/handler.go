package auth

import (
	"errors"
	"net/http"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts registration and login. loginGuard, when not
// nil, runs before the login handler (rate limiting).
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, loginGuard gin.HandlerFunc) {
	api.POST("/users", h.Register)

	login := []gin.HandlerFunc{h.Login}
	if loginGuard != nil {
		login = append([]gin.HandlerFunc{loginGuard}, login...)
	}
	api.POST("/auth/token/login", login...)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/auth/token/logout", h.Logout)
	protected.POST("/users/set_password", h.SetPassword)
}

// Register регистрирует нового пользователя.
// @Summary		Регистрация пользователя
// @Tags		Пользователи
// @Param		request	body	RegisterRequest	true	"email, username, first_name, last_name, password"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "Ошибка валидации или email/username уже заняты"
// @Router		/users [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, RegisteredUser{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// Login выдаёт токен по email и паролю.
// @Summary		Получить токен
// @Tags		Авторизация
// @Param		request	body	LoginRequest	true	"email, password"
// @Success		200	{object}	map[string]interface{} "auth_token"
// @Failure		400	{object}	map[string]interface{} "Неверные учётные данные"
// @Failure		429	{object}	map[string]interface{}
// @Router		/auth/token/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, TokenResponse{AuthToken: token})
}

// Logout — токены не хранятся на сервере, клиент просто забывает токен.
// @Summary		Выйти
// @Tags		Авторизация
// @Security	BearerAuth
// @Success		204
// @Router		/auth/token/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	response.NoContent(c)
}

// SetPassword меняет пароль текущего пользователя.
// @Summary		Сменить пароль
// @Tags		Пользователи
// @Security	BearerAuth
// @Param		request	body	SetPasswordRequest	true	"current_password, new_password"
// @Success		204
// @Failure		400	{object}	map[string]interface{}
// @Router		/users/set_password [POST]
func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.SetPassword(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrWrongPassword) {
			response.Error(c, http.StatusBadRequest, "INVALID_PASSWORD", err.Error())
			return
		}
		response.FromError(c, err)
		return
	}

	response.NoContent(c)
}
