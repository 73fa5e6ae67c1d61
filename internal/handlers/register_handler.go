package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"certback/internal/services"
)

type RegisterHandler struct {
	registration services.RegistrationService
}

func NewRegisterHandler(registration services.RegistrationService) *RegisterHandler {
	return &RegisterHandler{registration: registration}
}

type registerRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	WhatsApp      string `json:"whatsapp" binding:"required"`
	AcceptPrivacy bool   `json:"accept_privacy"`
}

// @Summary      Начало регистрации
// @Description  Создаёт/обновляет пользователя и отправляет email-ссылку и WhatsApp-код
// @Tags         Register
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Данные регистрации"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/register [post]
func (h *RegisterHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.registration.StartRegistration(req.Name, req.Email, req.WhatsApp, req.AcceptPrivacy)
	if err != nil {
		switch err {
		case services.ErrConsentRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "privacy notice must be accepted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration started: verify email and WhatsApp",
		"user_id": user.ID,
	})
}

// @Summary      Повторная отправка WhatsApp-кода
// @Tags         Register
// @Accept       json
// @Produce      json
// @Param        body  body      object{email=string}  true  "Email пользователя"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/register/resend [post]
func (h *RegisterHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registration.ResendWhatsAppOTP(req.Email); err != nil {
		switch err {
		case services.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case services.ErrResendThrottled:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resend failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code sent"})
}
