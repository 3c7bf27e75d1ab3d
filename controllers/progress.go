package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct{}

// GetProgressNotes returns progress notes with pagination. Members see
// only notes about themselves; trainers only notes they wrote.
func (pc *ProgressController) GetProgressNotes(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var notes []models.Progress
	var total int64

	query := database.DB.Model(&models.Progress{})

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

	if err := query.Preload("Member.User").Preload("Trainer").Preload("Class").
		Offset(p.Offset()).Limit(p.PageSize).Order("id DESC").Find(&notes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch progress notes",
		})
	}

	return c.JSON(fiber.Map{
		"progress": notes,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetProgressNote returns a specific progress note
func (pc *ProgressController) GetProgressNote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid progress ID",
		})
	}

	var note models.Progress
	if err := database.DB.Preload("Member.User").Preload("Trainer").Preload("Class").
		First(&note, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Progress note not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != note.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(fiber.Map{
		"progress": note,
	})
}

// CreateProgressNote records a note about a member (trainer or admin).
// Trainers write notes under their own id.
func (pc *ProgressController) CreateProgressNote(c *fiber.Ctx) error {
	var req struct {
		MemberID     uint   `json:"member_id" validate:"required"`
		TrainerID    uint   `json:"trainer_id"`
		ClassID      *uint  `json:"class_id"`
		ProgressNote string `json:"progress_note" validate:"required"`
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

	if caller.Role == models.RoleTrainer {
		req.TrainerID = caller.ID
	}

	var fields []string
	if req.MemberID == 0 {
		fields = append(fields, "member_id")
	}
	if req.TrainerID == 0 {
		fields = append(fields, "trainer_id")
	}
	if strings.TrimSpace(req.ProgressNote) == "" {
		fields = append(fields, "progress_note")
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

	note := models.Progress{
		MemberID:     req.MemberID,
		TrainerID:    req.TrainerID,
		ClassID:      req.ClassID,
		ProgressNote: req.ProgressNote,
	}

	if err := database.DB.Create(&note).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create progress note",
		})
	}

	middleware.LogActivity(c, "CREATE", "progress", note.ID, fiber.Map{
		"member_id": note.MemberID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Progress note created successfully",
		"progress": note,
	})
}

// UpdateProgressNote edits the note text (author trainer or admin)
func (pc *ProgressController) UpdateProgressNote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid progress ID",
		})
	}

	var note models.Progress
	if err := database.DB.First(&note, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Progress note not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !middleware.IsTrainerOrAdmin(caller, note.TrainerID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var req struct {
		ProgressNote string `json:"progress_note"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.ProgressNote) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": []string{"progress_note"},
		})
	}

	if err := database.DB.Model(&note).Update("progress_note", req.ProgressNote).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update progress note",
		})
	}

	middleware.LogActivity(c, "UPDATE", "progress", note.ID, nil)

	return c.JSON(fiber.Map{
		"message":  "Progress note updated successfully",
		"progress": note,
	})
}

// DeleteProgressNote removes a note (author trainer or admin)
func (pc *ProgressController) DeleteProgressNote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid progress ID",
		})
	}

	var note models.Progress
	if err := database.DB.First(&note, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Progress note not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !middleware.IsTrainerOrAdmin(caller, note.TrainerID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	if err := database.DB.Delete(&note).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete progress note",
		})
	}

	middleware.LogActivity(c, "DELETE", "progress", note.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Progress note deleted successfully",
	})
}
