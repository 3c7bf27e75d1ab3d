package services

import (
	"time"

	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler hosts the periodic maintenance jobs: statistic snapshots,
// class lifecycle sweeps and activity-log flushing.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers and launches all cron jobs.
func (s *Scheduler) Start() {
	// Nightly rolling 7-day snapshot, persisted for the admin console
	if _, err := s.cron.AddFunc("30 0 * * *", s.snapshotStatistics); err != nil {
		logrus.WithError(err).Error("Failed to schedule statistics snapshot job")
	}

	// Hourly sweep: classes past their end time become completed
	if _, err := s.cron.AddFunc("@hourly", s.completeFinishedClasses); err != nil {
		logrus.WithError(err).Error("Failed to schedule class completion sweep")
	}

	// Drain the Redis activity-log queue into the database
	if _, err := s.cron.AddFunc("@every 5m", s.flushActivityLogs); err != nil {
		logrus.WithError(err).Error("Failed to schedule activity log flush")
	}

	s.cron.Start()
	logrus.Info("Scheduler started")
}

// Stop halts all cron jobs.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// snapshotStatistics writes a denormalized Statistic row covering the last
// 7 days. The live reports never read these rows; they exist for the
// admin console's historical charts.
func (s *Scheduler) snapshotStatistics() {
	db := database.GetDB()
	end := time.Now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -7)

	var memberCount, newMembers, cancelledMembers, enrollmentCount int64
	var totalRevenue float64

	db.Model(&models.MemberProfile{}).
		Where("join_date IS NOT NULL AND join_date < ? AND (cancellation_date IS NULL OR cancellation_date >= ?)", end, end).
		Count(&memberCount)
	db.Model(&models.MemberProfile{}).
		Where("join_date >= ? AND join_date < ?", start, end).
		Count(&newMembers)
	db.Model(&models.MemberProfile{}).
		Where("cancellation_date >= ? AND cancellation_date < ?", start, end).
		Count(&cancelledMembers)
	db.Model(&models.Enrollment{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&enrollmentCount)
	db.Model(&models.Payment{}).
		Where("status = ? AND date_paid >= ? AND date_paid < ?", models.PaymentStatusSuccess, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	snapshot := models.Statistic{
		PeriodType:       "weekly",
		PeriodStart:      start,
		PeriodEnd:        end,
		MemberCount:      int(memberCount),
		NewMembers:       int(newMembers),
		CancelledMembers: int(cancelledMembers),
		TotalRevenue:     totalRevenue,
		EnrollmentCount:  int(enrollmentCount),
	}

	if err := db.Create(&snapshot).Error; err != nil {
		logrus.WithError(err).Error("Failed to persist statistics snapshot")
		return
	}
	logrus.WithFields(logrus.Fields{
		"period_start": start.Format("2006-01-02"),
		"period_end":   end.Format("2006-01-02"),
	}).Info("Statistics snapshot persisted")
}

// completeFinishedClasses marks active classes whose end time has passed
// as completed.
func (s *Scheduler) completeFinishedClasses() {
	db := database.GetDB()
	result := db.Model(&models.Class{}).
		Where("status = ? AND end_time < ?", models.ClassActive, time.Now()).
		Update("status", models.ClassCompleted)
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Class completion sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("Classes marked completed")
	}
}

func (s *Scheduler) flushActivityLogs() {
	flushed, err := middleware.FlushActivityLogs()
	if err != nil {
		logrus.WithError(err).Warn("Activity log flush failed")
		return
	}
	if flushed > 0 {
		logrus.WithField("count", flushed).Debug("Activity logs flushed")
	}
}
