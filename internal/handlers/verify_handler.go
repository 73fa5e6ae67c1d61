package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"certback/internal/services"
)

type VerifyHandler struct {
	verification services.VerificationService
}

func NewVerifyHandler(verification services.VerificationService) *VerifyHandler {
	return &VerifyHandler{verification: verification}
}

// @Summary      Подтверждение email по токену
// @Tags         Verify
// @Accept       json
// @Produce      json
// @Param        body  body      object{token=string}  true  "Токен из письма"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/verify/email [post]
func (h *VerifyHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.verification.VerifyEmail(req.Token); err != nil {
		switch err {
		case services.ErrInvalidOrExpired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

// @Summary      Подтверждение WhatsApp по коду
// @Tags         Verify
// @Accept       json
// @Produce      json
// @Param        body  body      object{email=string,code=string}  true  "Email и код"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/verify/whatsapp [post]
func (h *VerifyHandler) VerifyWhatsApp(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.verification.VerifyWhatsApp(req.Email, req.Code); err != nil {
		switch err {
		case services.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case services.ErrInvalidOrExpired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "WhatsApp verified"})
}
