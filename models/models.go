package models

import (
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role values for User.Role
const (
	RoleAdmin        = "admin"
	RoleTrainer      = "trainer"
	RoleReceptionist = "receptionist"
	RoleMember       = "member"
)

// Class status values
const (
	ClassActive    = "active"
	ClassCancelled = "cancelled"
	ClassCompleted = "completed"
)

// Enrollment status values
const (
	EnrollmentPending   = "pending"
	EnrollmentApproved  = "approved"
	EnrollmentCancelled = "cancelled"
)

// Payment status values. Revenue reports count only PaymentStatusSuccess.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Member payment_status values
const (
	MemberUnpaid = "unpaid"
	MemberPaid   = "paid"
)

// User model. One row per account; role-specific fields live in the
// profile tables below (single identity record + detail record, not
// multi-table inheritance).
type User struct {
	BaseModel
	Username string  `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string  `json:"-" gorm:"size:255;not null"`
	Email    string  `json:"email" gorm:"size:255"`
	Phone    *string `json:"phone" gorm:"size:20;uniqueIndex"`
	FullName string  `json:"full_name" gorm:"size:255"`
	Role     string  `json:"role" gorm:"size:20;not null;default:'member';type:enum('admin','trainer','receptionist','member')"` // admin, trainer, receptionist, member
	Avatar   string  `json:"avatar" gorm:"size:500"`
	Active   bool    `json:"active" gorm:"default:true"`

	// Relationships
	Member       *MemberProfile       `json:"member,omitempty" gorm:"foreignKey:UserID"`
	Trainer      *TrainerProfile      `json:"trainer,omitempty" gorm:"foreignKey:UserID"`
	Receptionist *ReceptionistProfile `json:"receptionist,omitempty" gorm:"foreignKey:UserID"`
}

// MemberProfile model
type MemberProfile struct {
	BaseModel
	UserID           uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	PaymentStatus    string     `json:"payment_status" gorm:"size:10;not null;default:'unpaid'"` // unpaid, paid
	JoinDate         *time.Time `json:"join_date"`
	CancellationDate *time.Time `json:"cancellation_date"`
	PushToken        string     `json:"push_token" gorm:"size:255"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeSave stamps join_date the first time a member becomes paid.
func (m *MemberProfile) BeforeSave(tx *gorm.DB) error {
	if m.JoinDate == nil && m.PaymentStatus == MemberPaid {
		today := time.Now().Truncate(24 * time.Hour)
		m.JoinDate = &today
	}
	return nil
}

// TrainerProfile model
type TrainerProfile struct {
	BaseModel
	UserID          uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Specialization  string `json:"specialization" gorm:"size:20;type:enum('gym','yoga','swimming','dance')"` // gym, yoga, swimming, dance
	ExperienceYears int    `json:"experience_years"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeSave forces the owning account onto the trainer role; a trainer
// profile must never hang off a non-trainer user.
func (t *TrainerProfile) BeforeSave(tx *gorm.DB) error {
	if t.User.ID != 0 {
		t.User.Role = RoleTrainer
	}
	if t.UserID == 0 {
		return nil
	}
	return tx.Model(&User{}).
		Where("id = ? AND role <> ?", t.UserID, RoleTrainer).
		UpdateColumn("role", RoleTrainer).Error
}

// ReceptionistProfile model
type ReceptionistProfile struct {
	BaseModel
	UserID    uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	WorkShift string `json:"work_shift" gorm:"size:10;type:enum('morning','afternoon','evening')"` // morning, afternoon, evening

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Class model. DeletedAt is the soft-delete marker; soft-deleted classes
// stay out of default queries and can be restored.
type Class struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:100;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	TrainerID      uint           `json:"trainer_id" gorm:"not null"`
	StartTime      *time.Time     `json:"start_time"`
	EndTime        time.Time      `json:"end_time" gorm:"not null"`
	MaxMembers     int            `json:"max_members" gorm:"not null"`
	CurrentMembers int            `json:"current_members" gorm:"not null;default:0"`
	Status         string         `json:"status" gorm:"size:20;not null;default:'active';type:enum('active','cancelled','completed')"` // active, cancelled, completed
	Price          float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Trainer User `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
}

// Enrollment model
type Enrollment struct {
	BaseModel
	MemberID uint   `json:"member_id" gorm:"not null;uniqueIndex:idx_member_class"`
	ClassID  uint   `json:"class_id" gorm:"not null;uniqueIndex:idx_member_class"`
	Status   string `json:"status" gorm:"size:10;not null;default:'pending';type:enum('pending','approved','cancelled')"` // pending, approved, cancelled

	Member MemberProfile `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Class  Class         `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Payment model
type Payment struct {
	BaseModel
	MemberID      uint      `json:"member_id" gorm:"not null"`
	Amount        float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod string    `json:"payment_method" gorm:"size:10;not null;type:enum('momo','vnpay','stripe')"` // momo, vnpay, stripe
	Status        string    `json:"status" gorm:"size:10;not null;default:'pending';type:enum('pending','success','failed')"`
	TransactionID string    `json:"transaction_id" gorm:"size:50;not null;uniqueIndex"`
	DatePaid      time.Time `json:"date_paid" gorm:"autoCreateTime"`

	Member MemberProfile `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// Progress model for trainer notes on a member
type Progress struct {
	BaseModel
	MemberID     uint   `json:"member_id" gorm:"not null"`
	TrainerID    uint   `json:"trainer_id" gorm:"not null"`
	ClassID      *uint  `json:"class_id"`
	ProgressNote string `json:"progress_note" gorm:"type:text;not null"`

	Member  MemberProfile `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Trainer User          `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Class   *Class        `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Appointment model for one-on-one consultations
type Appointment struct {
	BaseModel
	MemberID  uint      `json:"member_id" gorm:"not null"`
	TrainerID uint      `json:"trainer_id" gorm:"not null"`
	DateTime  time.Time `json:"date_time" gorm:"not null"`

	Member  MemberProfile `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Trainer User          `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
}

// Notification model
type Notification struct {
	BaseModel
	MemberID uint       `json:"member_id" gorm:"not null"`
	Message  string     `json:"message" gorm:"type:text;not null"`
	Type     string     `json:"type" gorm:"size:20;not null;type:enum('class_schedule','promotion','reminder')"` // class_schedule, promotion, reminder
	IsRead   bool       `json:"is_read" gorm:"default:false"`
	ReadAt   *time.Time `json:"read_at"`

	Member MemberProfile `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// InternalNews model, authored by trainers or admins
type InternalNews struct {
	BaseModel
	AuthorID uint   `json:"author_id" gorm:"not null"`
	Title    string `json:"title" gorm:"size:200;not null"`
	Content  string `json:"content" gorm:"type:text;not null"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// Statistic model: denormalized snapshot rows written by the nightly cron
// job. Not authoritative; the live reports query the source tables.
type Statistic struct {
	BaseModel
	PeriodType       string    `json:"period_type" gorm:"size:20;not null;type:enum('weekly','monthly','yearly')"`
	PeriodStart      time.Time `json:"period_start" gorm:"not null"`
	PeriodEnd        time.Time `json:"period_end" gorm:"not null"`
	MemberCount      int       `json:"member_count" gorm:"default:0"`
	NewMembers       int       `json:"new_members" gorm:"default:0"`
	CancelledMembers int       `json:"cancelled_members" gorm:"default:0"`
	TotalRevenue     float64   `json:"total_revenue" gorm:"type:decimal(12,2);default:0"`
	ClassID          *uint     `json:"class_id"`
	EnrollmentCount  int       `json:"enrollment_count" gorm:"default:0"`
	AttendanceRate   float64   `json:"attendance_rate" gorm:"default:0"`

	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// ActivityLog model for audit tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    string `json:"details" gorm:"type:text"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// IsStaff reports whether the user may see administrative views.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleTrainer || u.Role == RoleReceptionist
}

// IsFull reports whether the class has reached capacity.
func (c *Class) IsFull() bool {
	return c.CurrentMembers >= c.MaxMembers
}
