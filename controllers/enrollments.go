package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentController struct{}

type enrollmentFailure struct {
	status  int
	message string
}

// releaseClassSlot gives back one occupancy slot, floored at zero.
// Unscoped so the counter stays correct even when the class was
// soft-deleted in between and later restored.
func releaseClassSlot(db *gorm.DB, classID uint) *gorm.DB {
	return db.Unscoped().Model(&models.Class{}).
		Where("id = ?", classID).
		UpdateColumn("current_members", gorm.Expr("GREATEST(current_members - 1, 0)"))
}

// createEnrollment applies the shared enrollment rules: no duplicate
// (member, class) pair and a capacity slot claimed with one conditional
// UPDATE, so two concurrent requests can never overfill a class. The
// enrollment row is only written after the slot is held; if the insert
// then loses the unique-pair race the slot is released again.
func createEnrollment(memberID, classID uint, status string) (*models.Enrollment, *enrollmentFailure) {
	var existing models.Enrollment
	if err := database.DB.Where("member_id = ? AND class_id = ?", memberID, classID).First(&existing).Error; err == nil {
		return nil, &enrollmentFailure{fiber.StatusBadRequest, "Bạn đã đăng ký lớp này rồi."}
	}

	claim := database.DB.Model(&models.Class{}).
		Where("id = ? AND current_members < max_members", classID).
		UpdateColumn("current_members", gorm.Expr("current_members + 1"))
	if claim.Error != nil {
		return nil, &enrollmentFailure{fiber.StatusInternalServerError, "Failed to update class occupancy"}
	}
	if claim.RowsAffected == 0 {
		return nil, &enrollmentFailure{fiber.StatusBadRequest, "Lớp học đã đủ số lượng học viên."}
	}

	enrollment := models.Enrollment{
		MemberID: memberID,
		ClassID:  classID,
		Status:   status,
	}
	if err := database.DB.Create(&enrollment).Error; err != nil {
		// Unique pair violation from a concurrent duplicate; release the slot
		releaseClassSlot(database.DB, classID)
		return nil, &enrollmentFailure{fiber.StatusConflict, "Bạn đã đăng ký lớp này rồi."}
	}

	return &enrollment, nil
}

// GetEnrollments returns enrollments with pagination. Members see only
// their own; staff may filter by member_id and class_id.
func (ec *EnrollmentController) GetEnrollments(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var enrollments []models.Enrollment
	var total int64

	query := database.DB.Model(&models.Enrollment{})

	if caller.IsStaff() {
		if memberID := c.Query("member_id"); memberID != "" {
			query = query.Where("member_id = ?", memberID)
		}
		if classID := c.Query("class_id"); classID != "" {
			query = query.Where("class_id = ?", classID)
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

	if err := query.Preload("Class").Preload("Member.User").
		Offset(p.Offset()).Limit(p.PageSize).Order("id DESC").Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch enrollments",
		})
	}

	return c.JSON(fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetEnrollment returns a specific enrollment
func (ec *EnrollmentController) GetEnrollment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	var enrollment models.Enrollment
	if err := database.DB.Preload("Class").Preload("Member.User").First(&enrollment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != enrollment.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(fiber.Map{
		"enrollment": enrollment,
	})
}

// CreateEnrollment enrolls a member in a class. Members enroll themselves;
// staff may enroll on behalf of any member by supplying member_id.
func (ec *EnrollmentController) CreateEnrollment(c *fiber.Ctx) error {
	var req struct {
		MemberID uint `json:"member"`
		ClassID  uint `json:"gym_class"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ClassID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": []string{"gym_class"},
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	memberID := req.MemberID
	if caller.IsStaff() {
		if memberID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": []string{"member"},
			})
		}
		var member models.MemberProfile
		if err := database.DB.First(&member, memberID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Member not found",
				"fields": []string{"member"},
			})
		}
	} else {
		var member models.MemberProfile
		if err := database.DB.Where("user_id = ?", caller.ID).First(&member).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Caller has no member profile",
			})
		}
		if memberID != 0 && memberID != member.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Members can only enroll themselves",
			})
		}
		memberID = member.ID
	}

	var class models.Class
	if err := database.DB.First(&class, req.ClassID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	enrollment, fail := createEnrollment(memberID, class.ID, models.EnrollmentPending)
	if fail != nil {
		return c.Status(fail.status).JSON(fiber.Map{"error": fail.message})
	}

	database.DB.Preload("Class").Preload("Member.User").First(enrollment, enrollment.ID)

	middleware.LogActivity(c, "CREATE", "enrollments", enrollment.ID, fiber.Map{
		"class_id":  class.ID,
		"member_id": memberID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Enrollment created successfully",
		"enrollment": enrollment,
	})
}

// UpdateEnrollment changes the approval status (staff only)
func (ec *EnrollmentController) UpdateEnrollment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	var enrollment models.Enrollment
	if err := database.DB.First(&enrollment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
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

	if !utils.IsValidEnrollmentStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid status",
			"fields": []string{"status"},
		})
	}

	if err := database.DB.Model(&enrollment).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update enrollment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "enrollments", enrollment.ID, req)

	return c.JSON(fiber.Map{
		"message":    "Enrollment updated successfully",
		"enrollment": enrollment,
	})
}

// DeleteEnrollment removes the enrollment and releases the class slot.
// The occupancy counter is floored at zero.
func (ec *EnrollmentController) DeleteEnrollment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	var enrollment models.Enrollment
	if err := database.DB.Preload("Member").First(&enrollment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != enrollment.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	if err := database.DB.Delete(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete enrollment",
		})
	}

	releaseClassSlot(database.DB, enrollment.ClassID)

	middleware.LogActivity(c, "DELETE", "enrollments", enrollment.ID, fiber.Map{
		"class_id":  enrollment.ClassID,
		"member_id": enrollment.MemberID,
	})

	return c.JSON(fiber.Map{
		"message": "Enrollment cancelled successfully",
	})
}
