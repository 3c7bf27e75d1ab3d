package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random hex string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	validRoles := []string{"admin", "trainer", "receptionist", "member"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

// IsValidClassStatus checks if a class status is valid
func IsValidClassStatus(status string) bool {
	validStatuses := []string{"active", "cancelled", "completed"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return true
		}
	}
	return false
}

// IsValidSpecialization checks if a trainer specialization is valid
func IsValidSpecialization(specialization string) bool {
	valid := []string{"gym", "yoga", "swimming", "dance"}
	for _, v := range valid {
		if specialization == v {
			return true
		}
	}
	return false
}

// IsValidWorkShift checks if a receptionist work shift is valid
func IsValidWorkShift(shift string) bool {
	valid := []string{"morning", "afternoon", "evening"}
	for _, v := range valid {
		if shift == v {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod checks if a payment method is valid
func IsValidPaymentMethod(method string) bool {
	valid := []string{"momo", "vnpay", "stripe"}
	for _, v := range valid {
		if method == v {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus checks if a payment status is valid
func IsValidPaymentStatus(status string) bool {
	valid := []string{"pending", "success", "failed"}
	for _, v := range valid {
		if status == v {
			return true
		}
	}
	return false
}

// IsValidNotificationType checks if a notification type is valid
func IsValidNotificationType(typ string) bool {
	valid := []string{"class_schedule", "promotion", "reminder"}
	for _, v := range valid {
		if typ == v {
			return true
		}
	}
	return false
}

// IsValidEnrollmentStatus checks if an enrollment status is valid
func IsValidEnrollmentStatus(status string) bool {
	valid := []string{"pending", "approved", "cancelled"}
	for _, v := range valid {
		if status == v {
			return true
		}
	}
	return false
}

// IsValidFileExtension checks if file extension is allowed
func IsValidFileExtension(filename string, allowedExtensions []string) bool {
	if filename == "" {
		return false
	}

	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return false
	}

	ext := strings.ToLower(parts[len(parts)-1])

	for _, allowedExt := range allowedExtensions {
		if ext == strings.ToLower(allowedExt) {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}
