package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentController struct{}

// GetPayments returns payments with pagination. Members see only their
// own payments; admin/receptionist may filter by member_id and status.
func (pc *PaymentController) GetPayments(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var payments []models.Payment
	var total int64

	query := database.DB.Model(&models.Payment{})

	if caller.IsStaff() {
		if memberID := c.Query("member_id"); memberID != "" {
			query = query.Where("member_id = ?", memberID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	} else {
		var member models.MemberProfile
		if err := database.DB.Where("user_id = ?", caller.ID).First(&member).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Caller has no member profile",
			})
		}
		query = query.Where("member_id = ?", member.ID)
	}

	query.Count(&total)

	if err := query.Preload("Member.User").
		Offset(p.Offset()).Limit(p.PageSize).Order("date_paid DESC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetPayment returns a specific payment
func (pc *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.Preload("Member.User").First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != payment.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(fiber.Map{
		"payment": payment,
	})
}

// CreatePayment records a payment (admin or receptionist). A successful
// payment also flips the member's payment status to paid.
func (pc *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req struct {
		MemberID      uint    `json:"member_id" validate:"required"`
		Amount        float64 `json:"amount" validate:"required"`
		PaymentMethod string  `json:"payment_method" validate:"required"`
		Status        string  `json:"status"`
		TransactionID string  `json:"transaction_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var fields []string
	if req.MemberID == 0 {
		fields = append(fields, "member_id")
	}
	if req.Amount <= 0 {
		fields = append(fields, "amount")
	}
	if !utils.IsValidPaymentMethod(req.PaymentMethod) {
		fields = append(fields, "payment_method")
	}
	if req.Status != "" && !utils.IsValidPaymentStatus(req.Status) {
		fields = append(fields, "status")
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	var member models.MemberProfile
	if err := database.DB.First(&member, req.MemberID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Member not found",
			"fields": []string{"member_id"},
		})
	}

	if req.Status == "" {
		req.Status = models.PaymentStatusPending
	}
	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" {
		transactionID = uuid.New().String()
	} else {
		var existing models.Payment
		if err := database.DB.Where("transaction_id = ?", transactionID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Transaction ID already exists",
			})
		}
	}

	payment := models.Payment{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		TransactionID: transactionID,
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create payment",
		})
	}

	if payment.Status == models.PaymentStatusSuccess {
		member.PaymentStatus = models.MemberPaid
		database.DB.Save(&member)
	}

	middleware.LogActivity(c, "CREATE", "payments", payment.ID, fiber.Map{
		"member_id": payment.MemberID,
		"amount":    payment.Amount,
		"status":    payment.Status,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

// UpdatePayment updates a payment's status (admin or receptionist)
func (pc *PaymentController) UpdatePayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	var req struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !utils.IsValidPaymentStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid status",
			"fields": []string{"status"},
		})
	}

	if err := database.DB.Model(&payment).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update payment",
		})
	}

	if req.Status == models.PaymentStatusSuccess {
		var member models.MemberProfile
		if err := database.DB.First(&member, payment.MemberID).Error; err == nil {
			member.PaymentStatus = models.MemberPaid
			database.DB.Save(&member)
		}
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, req)

	return c.JSON(fiber.Map{
		"message": "Payment updated successfully",
		"payment": payment,
	})
}

// DeletePayment removes a payment record (admin only)
func (pc *PaymentController) DeletePayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if err := database.DB.Delete(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete payment",
		})
	}

	middleware.LogActivity(c, "DELETE", "payments", payment.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Payment deleted successfully",
	})
}
