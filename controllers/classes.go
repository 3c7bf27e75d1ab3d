package controllers

import (
	"fmt"
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClassController struct{}

// GetClasses returns classes with pagination. Members see only active,
// non-deleted classes; staff see everything including soft-deleted rows.
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var classes []models.Class
	var total int64

	var query *gorm.DB
	if caller.IsStaff() {
		query = database.DB.Unscoped().Model(&models.Class{})
	} else {
		query = database.DB.Model(&models.Class{}).Where("status = ?", models.ClassActive)
	}

	if trainerID := c.Query("trainer_id"); trainerID != "" {
		query = query.Where("trainer_id = ?", trainerID)
	}
	if status := c.Query("status"); status != "" {
		if !utils.IsValidClassStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid status",
				"fields": []string{"status"},
			})
		}
		query = query.Where("status = ?", status)
	}
	// Exclude classes the given member is already enrolled in
	if notIn := c.Query("not_in_class"); notIn != "" {
		memberID, err := strconv.ParseUint(notIn, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid member id",
				"fields": []string{"not_in_class"},
			})
		}
		query = query.Where("id NOT IN (?)",
			database.DB.Model(&models.Enrollment{}).Select("class_id").Where("member_id = ?", uint(memberID)))
	}

	query.Count(&total)

	if err := query.Preload("Trainer").
		Offset(p.Offset()).Limit(p.PageSize).Order("id DESC").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	dtos := make([]utils.ClassDTO, 0, len(classes))
	for _, cl := range classes {
		dtos = append(dtos, utils.ToClassDTO(cl))
	}

	return c.JSON(fiber.Map{
		"classes": dtos,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetClass returns a specific class. Soft-deleted classes are reported as
// not found regardless of the caller's role.
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Unscoped().Preload("Trainer").First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	if class.DeletedAt.Valid {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lớp học này không tồn tại hoặc đã bị xóa.",
		})
	}

	return c.JSON(fiber.Map{
		"class": utils.ToClassDTO(class),
	})
}

// CreateClass creates a new class (admin, trainer or receptionist)
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req struct {
		Name        string     `json:"name" validate:"required"`
		Description string     `json:"description"`
		TrainerID   uint       `json:"trainer_id" validate:"required"`
		StartTime   *time.Time `json:"start_time"`
		EndTime     *time.Time `json:"end_time" validate:"required"`
		MaxMembers  int        `json:"max_members"`
		Price       float64    `json:"price"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var fields []string
	if req.Name == "" {
		fields = append(fields, "name")
	}
	if req.EndTime == nil {
		fields = append(fields, "end_time")
	}
	if req.MaxMembers < 0 {
		fields = append(fields, "max_members")
	}
	if req.TrainerID == 0 {
		fields = append(fields, "trainer_id")
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	// Trainers may only create classes for themselves
	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if caller.Role == models.RoleTrainer && caller.ID != req.TrainerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Trainers can only create their own classes",
		})
	}

	var trainer models.User
	if err := database.DB.Where("id = ? AND role = ?", req.TrainerID, models.RoleTrainer).First(&trainer).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Trainer not found",
			"fields": []string{"trainer_id"},
		})
	}

	class := models.Class{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		StartTime:   req.StartTime,
		EndTime:     *req.EndTime,
		MaxMembers:  req.MaxMembers,
		Status:      models.ClassActive,
		Price:       req.Price,
	}

	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create class",
		})
	}

	database.DB.Preload("Trainer").First(&class, class.ID)

	middleware.LogActivity(c, "CREATE", "classes", class.ID, fiber.Map{"name": class.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class created successfully",
		"class":   utils.ToClassDTO(class),
	})
}

// UpdateClass updates a class. Admins may edit any class; trainers only
// their own.
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if caller.Role == models.RoleTrainer && !middleware.IsTrainerOrAdmin(caller, class.TrainerID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var req struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		StartTime   *time.Time `json:"start_time"`
		EndTime     *time.Time `json:"end_time"`
		MaxMembers  *int       `json:"max_members"`
		Status      *string    `json:"status"`
		Price       *float64   `json:"price"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.MaxMembers != nil {
		if *req.MaxMembers < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Capacity must not be negative",
				"fields": []string{"max_members"},
			})
		}
		updates["max_members"] = *req.MaxMembers
	}
	if req.Status != nil {
		if !utils.IsValidClassStatus(*req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid status",
				"fields": []string{"status"},
			})
		}
		updates["status"] = *req.Status
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&class).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update class",
			})
		}
	}

	database.DB.Preload("Trainer").First(&class, class.ID)

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Class updated successfully",
		"class":   utils.ToClassDTO(class),
	})
}

// DeleteClass soft-deletes a class. Trainers may only delete their own
// classes; a second delete on the same class is rejected.
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Unscoped().First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if caller.Role == models.RoleTrainer && !middleware.IsTrainerOrAdmin(caller, class.TrainerID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	if class.DeletedAt.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Lớp học '%s' đã bị xóa trước đó.", class.Name),
		})
	}

	if err := database.DB.Delete(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete class",
		})
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, fiber.Map{"name": class.Name})

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Lớp học '%s' đã bị xóa mềm.", class.Name),
	})
}

// RestoreClass clears the soft-delete marker (admin only)
func (cc *ClassController) RestoreClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Unscoped().First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	if !class.DeletedAt.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Lớp học này chưa bị xóa.",
		})
	}

	if err := database.DB.Unscoped().Model(&class).Update("deleted_at", nil).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to restore class",
		})
	}

	middleware.LogActivity(c, "RESTORE", "classes", class.ID, fiber.Map{"name": class.Name})

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Lớp học '%s' đã được khôi phục.", class.Name),
	})
}

// EnrollClass lets the calling member self-enroll in the class. Capacity
// is claimed atomically; see CreateEnrollment for the shared rules.
func (cc *ClassController) EnrollClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var member models.MemberProfile
	if err := database.DB.Where("user_id = ?", caller.ID).First(&member).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Caller has no member profile",
		})
	}

	var class models.Class
	if err := database.DB.Unscoped().First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}
	if class.DeletedAt.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Lớp học này đã bị xóa.",
		})
	}

	enrollment, fail := createEnrollment(member.ID, class.ID, models.EnrollmentApproved)
	if fail != nil {
		return c.Status(fail.status).JSON(fiber.Map{"error": fail.message})
	}

	middleware.LogActivity(c, "CREATE", "enrollments", enrollment.ID, fiber.Map{
		"class_id":  class.ID,
		"member_id": member.ID,
	})

	return c.JSON(fiber.Map{
		"message":    fmt.Sprintf("Đăng ký lớp '%s' thành công.", class.Name),
		"enrollment": enrollment,
	})
}
