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

type NewsController struct{}

// GetNews returns internal news posts with pagination, newest first.
// Readable by any authenticated user.
func (nc *NewsController) GetNews(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	var posts []models.InternalNews
	var total int64

	query := database.DB.Model(&models.InternalNews{})

	if authorID := c.Query("author_id"); authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}
	if q := c.Query("q"); q != "" {
		search := "%" + q + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", search, search)
	}

	query.Count(&total)

	if err := query.Preload("Author").
		Offset(p.Offset()).Limit(p.PageSize).Order("id DESC").Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch news",
		})
	}

	return c.JSON(fiber.Map{
		"news": posts,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetNewsPost returns a specific news post
func (nc *NewsController) GetNewsPost(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid news ID",
		})
	}

	var post models.InternalNews
	if err := database.DB.Preload("Author").First(&post, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "News post not found",
		})
	}

	return c.JSON(fiber.Map{
		"news": post,
	})
}

// CreateNewsPost publishes a news post (admin or trainer)
func (nc *NewsController) CreateNewsPost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title" validate:"required"`
		Content string `json:"content" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Title = utils.SanitizeString(req.Title)

	var fields []string
	if req.Title == "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(req.Content) == "" {
		fields = append(fields, "content")
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	post := models.InternalNews{
		AuthorID: caller.ID,
		Title:    req.Title,
		Content:  req.Content,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create news post",
		})
	}

	middleware.LogActivity(c, "CREATE", "internal_news", post.ID, fiber.Map{
		"title": post.Title,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "News post created successfully",
		"news":    post,
	})
}

// UpdateNewsPost edits a post (author or admin)
func (nc *NewsController) UpdateNewsPost(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid news ID",
		})
	}

	var post models.InternalNews
	if err := database.DB.First(&post, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "News post not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if caller.Role != models.RoleAdmin && caller.ID != post.AuthorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		title := utils.SanitizeString(*req.Title)
		if title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": []string{"title"},
			})
		}
		updates["title"] = title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": []string{"content"},
			})
		}
		updates["content"] = *req.Content
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&post).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update news post",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "internal_news", post.ID, updates)

	return c.JSON(fiber.Map{
		"message": "News post updated successfully",
		"news":    post,
	})
}

// DeleteNewsPost removes a post (author or admin)
func (nc *NewsController) DeleteNewsPost(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid news ID",
		})
	}

	var post models.InternalNews
	if err := database.DB.First(&post, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "News post not found",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if caller.Role != models.RoleAdmin && caller.ID != post.AuthorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	if err := database.DB.Delete(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete news post",
		})
	}

	middleware.LogActivity(c, "DELETE", "internal_news", post.ID, nil)

	return c.JSON(fiber.Map{
		"message": "News post deleted successfully",
	})
}
