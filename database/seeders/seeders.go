package seeders

import (
	"log"
	"time"

	"sportcenter_go/database"
	"sportcenter_go/models"
	"sportcenter_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedClasses()

	log.Println("Database seeding completed successfully!")
}

func strPtr(s string) *string { return &s }

// SeedUsers seeds one account per role plus their profile rows
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			BaseModel: models.BaseModel{ID: 1},
			Username:  "admin",
			Password:  hashedPassword,
			Email:     "admin@sportcenter.vn",
			Phone:     strPtr("0901234567"),
			FullName:  "Quản trị viên",
			Role:      models.RoleAdmin,
			Active:    true,
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Username:  "trainer_minh",
			Password:  hashedPassword,
			Email:     "minh.tran@sportcenter.vn",
			Phone:     strPtr("0901234568"),
			FullName:  "Trần Văn Minh",
			Role:      models.RoleTrainer,
			Active:    true,
		},
		{
			BaseModel: models.BaseModel{ID: 3},
			Username:  "trainer_lan",
			Password:  hashedPassword,
			Email:     "lan.nguyen@sportcenter.vn",
			Phone:     strPtr("0901234569"),
			FullName:  "Nguyễn Thị Lan",
			Role:      models.RoleTrainer,
			Active:    true,
		},
		{
			BaseModel: models.BaseModel{ID: 4},
			Username:  "reception_hoa",
			Password:  hashedPassword,
			Email:     "hoa.pham@sportcenter.vn",
			Phone:     strPtr("0901234570"),
			FullName:  "Phạm Thị Hoa",
			Role:      models.RoleReceptionist,
			Active:    true,
		},
		{
			BaseModel: models.BaseModel{ID: 5},
			Username:  "member_duc",
			Password:  hashedPassword,
			Email:     "duc.le@gmail.com",
			Phone:     strPtr("0901234571"),
			FullName:  "Lê Anh Đức",
			Role:      models.RoleMember,
			Active:    true,
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	profiles := []interface{}{
		&models.TrainerProfile{UserID: 2, Specialization: "gym", ExperienceYears: 5},
		&models.TrainerProfile{UserID: 3, Specialization: "yoga", ExperienceYears: 3},
		&models.ReceptionistProfile{UserID: 4, WorkShift: "morning"},
		&models.MemberProfile{UserID: 5, PaymentStatus: models.MemberUnpaid},
	}
	for _, profile := range profiles {
		if err := database.DB.Create(profile).Error; err != nil {
			log.Printf("Error seeding profile: %v", err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedClasses seeds a few starter classes owned by the seeded trainers
func SeedClasses() {
	var count int64
	database.DB.Model(&models.Class{}).Count(&count)
	if count > 0 {
		log.Println("Classes already seeded, skipping...")
		return
	}

	now := time.Now()
	start := now.Add(24 * time.Hour)

	classes := []models.Class{
		{
			Name:        "Gym cơ bản",
			Description: "Lớp gym cho người mới bắt đầu",
			TrainerID:   2,
			StartTime:   &start,
			EndTime:     now.AddDate(0, 3, 0),
			MaxMembers:  20,
			Status:      models.ClassActive,
			Price:       1500000,
		},
		{
			Name:        "Yoga buổi sáng",
			Description: "Lớp yoga thư giãn mỗi sáng",
			TrainerID:   3,
			StartTime:   &start,
			EndTime:     now.AddDate(0, 2, 0),
			MaxMembers:  15,
			Status:      models.ClassActive,
			Price:       1200000,
		},
	}

	for _, class := range classes {
		if err := database.DB.Create(&class).Error; err != nil {
			log.Printf("Error seeding class %s: %v", class.Name, err)
		}
	}

	log.Println("Classes seeded successfully")
}
