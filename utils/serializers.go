package utils

import (
	"time"

	"sportcenter_go/models"
)

// Compact representations used across APIs

type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
	Active   bool   `json:"active"`
}

type MemberDTO struct {
	UserDTO
	ProfileID        uint       `json:"profile_id"`
	PaymentStatus    string     `json:"payment_status"`
	JoinDate         *time.Time `json:"join_date,omitempty"`
	CancellationDate *time.Time `json:"cancellation_date,omitempty"`
}

type TrainerDTO struct {
	UserDTO
	ProfileID       uint   `json:"profile_id"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
}

type ClassDTO struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	TrainerID      uint       `json:"trainer_id"`
	TrainerName    string     `json:"trainer_name,omitempty"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        time.Time  `json:"end_time"`
	MaxMembers     int        `json:"max_members"`
	CurrentMembers int        `json:"current_members"`
	Status         string     `json:"status"`
	Price          float64    `json:"price"`
}

// ToUserDTO maps a models.User to its public representation. The avatar
// field carries the resolved storage URL, never an internal handle; an
// unset avatar serializes as the empty string.
func ToUserDTO(u models.User) UserDTO {
	phone := ""
	if u.Phone != nil {
		phone = *u.Phone
	}
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    phone,
		FullName: u.FullName,
		Role:     u.Role,
		Avatar:   u.Avatar,
		Active:   u.Active,
	}
}

// ToMemberDTO maps a member profile with its preloaded user.
func ToMemberDTO(m models.MemberProfile) MemberDTO {
	return MemberDTO{
		UserDTO:          ToUserDTO(m.User),
		ProfileID:        m.ID,
		PaymentStatus:    m.PaymentStatus,
		JoinDate:         m.JoinDate,
		CancellationDate: m.CancellationDate,
	}
}

// ToTrainerDTO maps a trainer profile with its preloaded user.
func ToTrainerDTO(t models.TrainerProfile) TrainerDTO {
	return TrainerDTO{
		UserDTO:         ToUserDTO(t.User),
		ProfileID:       t.ID,
		Specialization:  t.Specialization,
		ExperienceYears: t.ExperienceYears,
	}
}

// ToClassDTO maps a class with its preloaded trainer user.
func ToClassDTO(cl models.Class) ClassDTO {
	dto := ClassDTO{
		ID:             cl.ID,
		Name:           cl.Name,
		Description:    cl.Description,
		TrainerID:      cl.TrainerID,
		StartTime:      cl.StartTime,
		EndTime:        cl.EndTime,
		MaxMembers:     cl.MaxMembers,
		CurrentMembers: cl.CurrentMembers,
		Status:         cl.Status,
		Price:          cl.Price,
	}
	if cl.Trainer.ID != 0 {
		dto.TrainerName = cl.Trainer.FullName
	}
	return dto
}
