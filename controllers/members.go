package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type MemberController struct{}

// GetMembers returns member profiles with pagination. Supports filtering
// by payment_status and searching by full name or phone.
func (mc *MemberController) GetMembers(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	var members []models.MemberProfile
	var total int64

	query := database.DB.Model(&models.MemberProfile{}).
		Joins("JOIN users ON users.id = member_profiles.user_id")

	if ps := c.Query("payment_status"); ps != "" {
		query = query.Where("member_profiles.payment_status = ?", ps)
	}
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("users.full_name LIKE ? OR users.phone LIKE ?", like, like)
	}

	query.Count(&total)

	if err := query.Preload("User").
		Offset(p.Offset()).Limit(p.PageSize).Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch members",
		})
	}

	dtos := make([]utils.MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, utils.ToMemberDTO(m))
	}

	return c.JSON(fiber.Map{
		"members": dtos,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetMember returns a specific member profile
func (mc *MemberController) GetMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.MemberProfile
	if err := database.DB.Preload("User").First(&member, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(fiber.Map{
		"member": utils.ToMemberDTO(member),
	})
}

// UpdateMember updates payment status and cancellation date (staff only).
// Flipping payment_status to paid stamps join_date via the model hook.
func (mc *MemberController) UpdateMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.MemberProfile
	if err := database.DB.First(&member, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var req struct {
		PaymentStatus    *string `json:"payment_status"`
		CancellationDate *string `json:"cancellation_date"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PaymentStatus != nil {
		status := strings.TrimSpace(*req.PaymentStatus)
		if status != models.MemberUnpaid && status != models.MemberPaid {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid payment status",
				"fields": []string{"payment_status"},
			})
		}
		member.PaymentStatus = status
	}
	if req.CancellationDate != nil {
		if *req.CancellationDate == "" {
			member.CancellationDate = nil
		} else {
			d, err := time.Parse("2006-01-02", *req.CancellationDate)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":  "Invalid date format, expected YYYY-MM-DD",
					"fields": []string{"cancellation_date"},
				})
			}
			member.CancellationDate = &d
		}
	}

	// Save (not Updates) so the BeforeSave hook can stamp join_date
	if err := database.DB.Save(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update member",
		})
	}

	database.DB.Preload("User").First(&member, member.ID)

	middleware.LogActivity(c, "UPDATE", "members", member.ID, req)

	return c.JSON(fiber.Map{
		"message": "Member updated successfully",
		"member":  utils.ToMemberDTO(member),
	})
}

// DeleteMember marks a membership as cancelled (staff only)
func (mc *MemberController) DeleteMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.MemberProfile
	if err := database.DB.First(&member, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	now := time.Now()
	member.CancellationDate = &now
	if err := database.DB.Save(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel membership",
		})
	}
	database.DB.Model(&models.User{}).Where("id = ?", member.UserID).Update("active", false)

	middleware.LogActivity(c, "DELETE", "members", member.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Membership cancelled successfully",
	})
}
