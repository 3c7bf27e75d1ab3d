package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type AppointmentController struct{}

// GetAppointments returns appointments with pagination. Members and
// trainers see only their own; admin/receptionist see all.
func (ac *AppointmentController) GetAppointments(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var appointments []models.Appointment
	var total int64

	query := database.DB.Model(&models.Appointment{})

	switch caller.Role {
	case models.RoleMember:
		var member models.MemberProfile
		if err := database.DB.Where("user_id = ?", caller.ID).First(&member).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Caller has no member profile",
			})
		}
		query = query.Where("member_id = ?", member.ID)
	case models.RoleTrainer:
		query = query.Where("trainer_id = ?", caller.ID)
	default:
		if memberID := c.Query("member_id"); memberID != "" {
			query = query.Where("member_id = ?", memberID)
		}
		if trainerID := c.Query("trainer_id"); trainerID != "" {
			query = query.Where("trainer_id = ?", trainerID)
		}
	}

	query.Count(&total)

	if err := query.Preload("Member.User").Preload("Trainer").
		Offset(p.Offset()).Limit(p.PageSize).Order("date_time ASC").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch appointments",
		})
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetAppointment returns a specific appointment
func (ac *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := database.DB.Preload("Member.User").Preload("Trainer").
		First(&appointment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != appointment.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(fiber.Map{
		"appointment": appointment,
	})
}

// CreateAppointment books a consultation between a member and a trainer.
// Members book for themselves; staff may book for any member.
func (ac *AppointmentController) CreateAppointment(c *fiber.Ctx) error {
	var req struct {
		MemberID  uint      `json:"member_id"`
		TrainerID uint      `json:"trainer_id" validate:"required"`
		DateTime  time.Time `json:"date_time" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	if caller.Role == models.RoleMember {
		var member models.MemberProfile
		if err := database.DB.Where("user_id = ?", caller.ID).First(&member).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Caller has no member profile",
			})
		}
		req.MemberID = member.ID
	}

	var fields []string
	if req.MemberID == 0 {
		fields = append(fields, "member_id")
	}
	if req.TrainerID == 0 {
		fields = append(fields, "trainer_id")
	}
	if req.DateTime.IsZero() {
		fields = append(fields, "date_time")
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	var trainer models.User
	if err := database.DB.Where("id = ? AND role = ?", req.TrainerID, models.RoleTrainer).First(&trainer).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Trainer not found",
			"fields": []string{"trainer_id"},
		})
	}

	appointment := models.Appointment{
		MemberID:  req.MemberID,
		TrainerID: req.TrainerID,
		DateTime:  req.DateTime,
	}

	if err := database.DB.Create(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create appointment",
		})
	}

	middleware.LogActivity(c, "CREATE", "appointments", appointment.ID, fiber.Map{
		"member_id":  appointment.MemberID,
		"trainer_id": appointment.TrainerID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment created successfully",
		"appointment": appointment,
	})
}

// UpdateAppointment reschedules an appointment
func (ac *AppointmentController) UpdateAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := database.DB.Preload("Member").First(&appointment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != appointment.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var req struct {
		DateTime time.Time `json:"date_time"`
	}

	if err := c.BodyParser(&req); err != nil || req.DateTime.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": []string{"date_time"},
		})
	}

	if err := database.DB.Model(&appointment).Update("date_time", req.DateTime).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update appointment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "appointments", appointment.ID, req)

	return c.JSON(fiber.Map{
		"message":     "Appointment updated successfully",
		"appointment": appointment,
	})
}

// DeleteAppointment cancels an appointment
func (ac *AppointmentController) DeleteAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := database.DB.Preload("Member").First(&appointment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != appointment.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	if err := database.DB.Delete(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete appointment",
		})
	}

	middleware.LogActivity(c, "DELETE", "appointments", appointment.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Appointment cancelled successfully",
	})
}
