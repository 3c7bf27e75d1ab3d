package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type TrainerController struct{}

// GetTrainers returns trainer profiles with pagination
func (tc *TrainerController) GetTrainers(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	var trainers []models.TrainerProfile
	var total int64

	query := database.DB.Model(&models.TrainerProfile{})

	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("specialization = ?", spec)
	}

	query.Count(&total)

	if err := query.Preload("User").
		Offset(p.Offset()).Limit(p.PageSize).Find(&trainers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch trainers",
		})
	}

	dtos := make([]utils.TrainerDTO, 0, len(trainers))
	for _, t := range trainers {
		dtos = append(dtos, utils.ToTrainerDTO(t))
	}

	return c.JSON(fiber.Map{
		"trainers": dtos,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetTrainer returns a specific trainer profile
func (tc *TrainerController) GetTrainer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid trainer ID",
		})
	}

	var trainer models.TrainerProfile
	if err := database.DB.Preload("User").First(&trainer, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Trainer not found",
		})
	}

	return c.JSON(fiber.Map{
		"trainer": utils.ToTrainerDTO(trainer),
	})
}

// UpdateTrainer updates a trainer profile (admin, or the trainer itself)
func (tc *TrainerController) UpdateTrainer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid trainer ID",
		})
	}

	var trainer models.TrainerProfile
	if err := database.DB.First(&trainer, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Trainer not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !middleware.IsOwnerOrAdmin(caller, trainer.UserID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var req struct {
		Specialization  *string `json:"specialization"`
		ExperienceYears *int    `json:"experience_years"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Specialization != nil {
		if !utils.IsValidSpecialization(*req.Specialization) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid specialization",
				"fields": []string{"specialization"},
			})
		}
		updates["specialization"] = *req.Specialization
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Experience years must not be negative",
				"fields": []string{"experience_years"},
			})
		}
		updates["experience_years"] = *req.ExperienceYears
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&trainer).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update trainer",
			})
		}
	}

	database.DB.Preload("User").First(&trainer, trainer.ID)

	middleware.LogActivity(c, "UPDATE", "trainers", trainer.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Trainer updated successfully",
		"trainer": utils.ToTrainerDTO(trainer),
	})
}

// DeleteTrainer removes a trainer profile (admin only)
func (tc *TrainerController) DeleteTrainer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid trainer ID",
		})
	}

	var trainer models.TrainerProfile
	if err := database.DB.First(&trainer, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Trainer not found",
		})
	}

	if err := database.DB.Delete(&trainer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete trainer",
		})
	}
	database.DB.Model(&models.User{}).Where("id = ?", trainer.UserID).Update("active", false)

	middleware.LogActivity(c, "DELETE", "trainers", trainer.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Trainer deleted successfully",
	})
}

// GetSpecializations lists the valid trainer specializations
func (tc *TrainerController) GetSpecializations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"specializations": []string{"gym", "yoga", "swimming", "dance"},
	})
}
