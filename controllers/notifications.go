package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/services/notifier"
	"sportcenter_go/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Notifier *notifier.Service
}

func NewNotificationController() *NotificationController {
	return &NotificationController{
		Notifier: notifier.NewService(),
	}
}

// memberProfileFor resolves the member profile for a member-role user.
func memberProfileFor(userID uint) (*models.MemberProfile, error) {
	var member models.MemberProfile
	if err := database.DB.Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetNotifications returns notifications with pagination. Members see
// their own; staff may filter by member_id and type.
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var notifications []models.Notification
	var total int64
	var unread int64

	query := database.DB.Model(&models.Notification{})
	unreadQuery := database.DB.Model(&models.Notification{}).Where("is_read = ?", false)

	if caller.IsStaff() {
		if memberID := c.Query("member_id"); memberID != "" {
			query = query.Where("member_id = ?", memberID)
			unreadQuery = unreadQuery.Where("member_id = ?", memberID)
		}
	} else {
		member, err := memberProfileFor(caller.ID)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Caller has no member profile",
			})
		}
		query = query.Where("member_id = ?", member.ID)
		unreadQuery = unreadQuery.Where("member_id = ?", member.ID)
	}

	if notifType := c.Query("type"); notifType != "" {
		query = query.Where("type = ?", notifType)
	}
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	query.Count(&total)
	unreadQuery.Count(&unread)

	if err := query.Offset(p.Offset()).Limit(p.PageSize).Order("id DESC").Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch notifications",
		})
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetNotification returns a specific notification
func (nc *NotificationController) GetNotification(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := database.DB.Preload("Member.User").First(&notification, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && caller.ID != notification.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(fiber.Map{
		"notification": notification,
	})
}

// CreateNotification sends a notification to one or more members, or to
// every member when broadcast is set. Admin and receptionist only.
func (nc *NotificationController) CreateNotification(c *fiber.Ctx) error {
	var req struct {
		MemberIDs []uint `json:"member_ids"`
		Message   string `json:"message" validate:"required"`
		Type      string `json:"type" validate:"required"`
		Broadcast bool   `json:"broadcast"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var fields []string
	if strings.TrimSpace(req.Message) == "" {
		fields = append(fields, "message")
	}
	if !utils.IsValidNotificationType(req.Type) {
		fields = append(fields, "type")
	}
	if !req.Broadcast && len(req.MemberIDs) == 0 {
		fields = append(fields, "member_ids")
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	var err error
	if req.Broadcast {
		err = nc.Notifier.NotifyAllMembers(req.Message, req.Type)
	} else {
		var count int64
		database.DB.Model(&models.MemberProfile{}).Where("id IN ?", req.MemberIDs).Count(&count)
		if count != int64(len(req.MemberIDs)) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "One or more members not found",
				"fields": []string{"member_ids"},
			})
		}
		err = nc.Notifier.Notify(req.MemberIDs, req.Message, req.Type)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send notifications",
		})
	}

	middleware.LogActivity(c, "CREATE", "notifications", 0, fiber.Map{
		"type":      req.Type,
		"broadcast": req.Broadcast,
		"count":     len(req.MemberIDs),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Notifications sent successfully",
	})
}

// MarkAsRead marks one notification read (owner only)
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := database.DB.Preload("Member").First(&notification, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if caller.ID != notification.Member.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	if !notification.IsRead {
		now := time.Now()
		if err := database.DB.Model(&notification).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update notification",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Notification marked as read",
		"notification": notification,
	})
}

// MarkAllAsRead marks every unread notification of the caller read
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	member, err := memberProfileFor(caller.ID)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Caller has no member profile",
		})
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("member_id = ? AND is_read = ?", member.ID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update notifications",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": result.RowsAffected,
	})
}

// RegisterPushToken stores the caller's device push token
func (nc *NotificationController) RegisterPushToken(c *fiber.Ctx) error {
	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	member, err := memberProfileFor(caller.ID)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Caller has no member profile",
		})
	}

	var req struct {
		PushToken string `json:"push_token" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.PushToken) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": []string{"push_token"},
		})
	}

	if err := database.DB.Model(member).Update("push_token", req.PushToken).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register push token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Push token registered successfully",
	})
}

// DeleteNotification removes a notification (admin only)
func (nc *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := database.DB.First(&notification, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	if err := database.DB.Delete(&notification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete notification",
		})
	}

	middleware.LogActivity(c, "DELETE", "notifications", notification.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Notification deleted successfully",
	})
}
