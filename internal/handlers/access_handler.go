package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"certback/internal/services"
)

type AccessHandler struct {
	codes services.AccessCodeService
}

func NewAccessHandler(codes services.AccessCodeService) *AccessHandler {
	return &AccessHandler{codes: codes}
}

// @Summary      Вход по коду доступа
// @Description  Сессию не создаёт — возвращает только user_id
// @Tags         Access
// @Accept       json
// @Produce      json
// @Param        body  body      object{email=string,code=string}  true  "Email и код"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/access/login [post]
func (h *AccessHandler) Login(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.codes.Login(req.Email, req.Code)
	if err != nil {
		switch err {
		case services.ErrNoActiveCode:
			c.JSON(http.StatusBadRequest, gin.H{"error": "no active access code"})
		case services.ErrCodeExpired:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access code expired"})
		case services.ErrCodeInvalid:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access granted", "user_id": userID})
}

// @Summary      Смена кода доступа
// @Description  Новый код: минимум 8 символов, заглавная, строчная и цифра. Срок действия не меняется.
// @Tags         Access
// @Accept       json
// @Produce      json
// @Param        body  body      object{email=string,current_code=string,new_code=string}  true  "Данные смены кода"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/access/change [post]
func (h *AccessHandler) Change(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		CurrentCode string `json:"current_code" binding:"required"`
		NewCode     string `json:"new_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.codes.Change(req.Email, req.CurrentCode, req.NewCode); err != nil {
		switch err {
		case services.ErrCodePolicy:
			c.JSON(http.StatusBadRequest, gin.H{"error": "new code must contain at least 1 uppercase, 1 lowercase, 1 digit and 8+ characters"})
		case services.ErrNoActiveCode:
			c.JSON(http.StatusNotFound, gin.H{"error": "no active access code"})
		case services.ErrCodeExpired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "access code expired"})
		case services.ErrIncorrectCurrentCode:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current code incorrect"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "code change failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code updated"})
}
