package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ReceptionistController struct{}

// GetReceptionists returns receptionist profiles with pagination
func (rc *ReceptionistController) GetReceptionists(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	var receptionists []models.ReceptionistProfile
	var total int64

	query := database.DB.Model(&models.ReceptionistProfile{})

	if shift := c.Query("work_shift"); shift != "" {
		query = query.Where("work_shift = ?", shift)
	}

	query.Count(&total)

	if err := query.Preload("User").
		Offset(p.Offset()).Limit(p.PageSize).Find(&receptionists).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch receptionists",
		})
	}

	return c.JSON(fiber.Map{
		"receptionists": receptionists,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetReceptionist returns a specific receptionist profile
func (rc *ReceptionistController) GetReceptionist(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid receptionist ID",
		})
	}

	var receptionist models.ReceptionistProfile
	if err := database.DB.Preload("User").First(&receptionist, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Receptionist not found",
		})
	}

	return c.JSON(fiber.Map{
		"receptionist": receptionist,
	})
}

// UpdateReceptionist updates the work shift (admin only)
func (rc *ReceptionistController) UpdateReceptionist(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid receptionist ID",
		})
	}

	var receptionist models.ReceptionistProfile
	if err := database.DB.First(&receptionist, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Receptionist not found",
		})
	}

	var req struct {
		WorkShift string `json:"work_shift"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !utils.IsValidWorkShift(req.WorkShift) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid work shift",
			"fields": []string{"work_shift"},
		})
	}

	if err := database.DB.Model(&receptionist).Update("work_shift", req.WorkShift).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update receptionist",
		})
	}

	database.DB.Preload("User").First(&receptionist, receptionist.ID)

	middleware.LogActivity(c, "UPDATE", "receptionists", receptionist.ID, req)

	return c.JSON(fiber.Map{
		"message":      "Receptionist updated successfully",
		"receptionist": receptionist,
	})
}

// DeleteReceptionist removes a receptionist profile (admin only)
func (rc *ReceptionistController) DeleteReceptionist(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid receptionist ID",
		})
	}

	var receptionist models.ReceptionistProfile
	if err := database.DB.First(&receptionist, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Receptionist not found",
		})
	}

	if err := database.DB.Delete(&receptionist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete receptionist",
		})
	}
	database.DB.Model(&models.User{}).Where("id = ?", receptionist.UserID).Update("active", false)

	middleware.LogActivity(c, "DELETE", "receptionists", receptionist.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Receptionist deleted successfully",
	})
}
