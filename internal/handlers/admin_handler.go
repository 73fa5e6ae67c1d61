package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"certback/internal/services"
)

type AdminHandler struct {
	auth     services.AuthService
	payments services.PaymentService
}

func NewAdminHandler(auth services.AuthService, payments services.PaymentService) *AdminHandler {
	return &AdminHandler{auth: auth, payments: payments}
}

// @Summary      Вход ревьюера
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        body  body      object{email=string,password=string}  true  "Учётные данные"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// @Summary      Очередь платежей на проверку
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/admin/payments [get]
func (h *AdminHandler) ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, err := h.payments.ListForReview(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// @Summary      Одобрение платежа
// @Description  captured + review pending -> paid/approved, затем выдача кода доступа
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true   "ID платежа"
// @Param        body  body      object{notes=string}   false  "Заметки ревьюера"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/admin/payments/{id}/approve [post]
func (h *AdminHandler) ApprovePayment(c *gin.Context) {
	paymentID := c.Param("id")
	reviewer := c.GetString("reviewer")

	var req struct {
		Notes string `json:"notes"`
	}
	// тело опционально
	_ = c.ShouldBindJSON(&req)

	if err := h.payments.ApprovePayment(paymentID, reviewer, req.Notes); err != nil {
		switch err {
		case services.ErrNotApprovable:
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment not eligible for approval"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment approved, access code issued"})
}
