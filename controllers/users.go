package controllers

import (
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"
	"sportcenter_go/storage"
	"sportcenter_go/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type UserController struct{}

// GetUsers returns all users with pagination
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	var users []models.User
	var total int64

	query := database.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Preload("Member").Preload("Trainer").Preload("Receptionist").
		Offset(p.Offset()).Limit(p.PageSize).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	dtos := make([]utils.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, utils.ToUserDTO(u))
	}

	return c.JSON(fiber.Map{
		"users": dtos,
		"pagination": fiber.Map{
			"page":      p.Page,
			"page_size": p.PageSize,
			"total":     total,
		},
	})
}

// GetUser returns a specific user by ID. Non-admins may only read their
// own record.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !caller.IsStaff() && !middleware.IsOwnerOrAdmin(caller, uint(id)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var user models.User
	if err := database.DB.Preload("Member").Preload("Trainer").Preload("Receptionist").
		First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// CreateUser creates a new user with any role (admin only). Trainer and
// receptionist accounts get their profile rows in the same request.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username        string `json:"username" validate:"required,min=3,max=50"`
		Password        string `json:"password" validate:"required,min=6"`
		Email           string `json:"email" validate:"email"`
		Phone           string `json:"phone"`
		FullName        string `json:"full_name"`
		Role            string `json:"role" validate:"required"`
		Specialization  string `json:"specialization"`
		ExperienceYears int    `json:"experience_years"`
		WorkShift       string `json:"work_shift"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !utils.IsValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already exists",
		})
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		if err := database.DB.Where("phone = ?", phone).First(&existingUser).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Phone number already exists",
			})
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username: req.Username,
		Password: hashedPassword,
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
		Active:   true,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	switch req.Role {
	case models.RoleMember:
		database.DB.Create(&models.MemberProfile{UserID: user.ID, PaymentStatus: models.MemberUnpaid})
	case models.RoleTrainer:
		if req.Specialization != "" && !utils.IsValidSpecialization(req.Specialization) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid specialization"})
		}
		database.DB.Create(&models.TrainerProfile{
			UserID:          user.ID,
			Specialization:  req.Specialization,
			ExperienceYears: req.ExperienceYears,
		})
	case models.RoleReceptionist:
		if req.WorkShift != "" && !utils.IsValidWorkShift(req.WorkShift) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid work shift"})
		}
		database.DB.Create(&models.ReceptionistProfile{UserID: user.ID, WorkShift: req.WorkShift})
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    utils.ToUserDTO(user),
	})
}

// UpdateUser updates an existing user
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !middleware.IsOwnerOrAdmin(caller, uint(id)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req struct {
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		FullName *string `json:"full_name"`
		Role     *string `json:"role"`
		Active   *bool   `json:"active"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" {
			var other models.User
			if err := database.DB.Where("phone = ? AND id <> ?", phone, user.ID).First(&other).Error; err == nil {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Phone number already exists",
				})
			}
			updates["phone"] = phone
		} else {
			updates["phone"] = nil
		}
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	// Role and active flag are admin-only changes
	if caller.Role == models.RoleAdmin {
		if req.Role != nil {
			if !utils.IsValidRole(*req.Role) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
			}
			updates["role"] = *req.Role
		}
		if req.Active != nil {
			updates["active"] = *req.Active
		}
	}

	prevRole := user.Role
	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update user",
			})
		}
	}

	// A trainer profile must never hang off a non-trainer user, so a role
	// change reconciles the profile row. Member profiles stay; leaving
	// members is handled through cancellation instead.
	if newRole, ok := updates["role"].(string); ok && newRole != prevRole {
		if prevRole == models.RoleTrainer {
			database.DB.Where("user_id = ?", user.ID).Delete(&models.TrainerProfile{})
		}
		if newRole == models.RoleTrainer {
			var trainerProfile models.TrainerProfile
			if err := database.DB.Where("user_id = ?", user.ID).First(&trainerProfile).Error; err != nil {
				database.DB.Create(&models.TrainerProfile{UserID: user.ID})
			}
		}
	}

	database.DB.First(&user, user.ID)

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updates)

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    utils.ToUserDTO(user),
	})
}

// DeleteUser deactivates a user (admin only)
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := database.DB.Model(&user).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	middleware.LogActivity(c, "DELETE", "users", user.ID, fiber.Map{"username": user.Username})

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// UploadAvatar uploads an avatar for a user. Users may only change their
// own avatar unless they are admins.
func (uc *UserController) UploadAvatar(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if !middleware.IsOwnerOrAdmin(caller, uint(id)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	allowed := strings.Split("jpg,jpeg,png,webp,gif", ",")
	if !utils.IsValidFileExtension(file.Filename, allowed) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File type not allowed",
		})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage service initialization failed",
		})
	}

	avatarURL, err := storageService.UploadFile(file, "avatars", user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload avatar",
		})
	}

	if user.Avatar != "" {
		go storageService.DeleteFile(user.Avatar)
	}

	if err := database.DB.Model(&user).Update("avatar", avatarURL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user avatar",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{
		"action": "avatar_upload",
		"avatar": avatarURL,
	})

	return c.JSON(fiber.Map{
		"message": "Avatar uploaded successfully",
		"avatar":  avatarURL,
	})
}
