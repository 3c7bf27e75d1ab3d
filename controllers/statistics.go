package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"sportcenter_go/config"
	"sportcenter_go/database"
	"sportcenter_go/middleware"
	"sportcenter_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type StatisticsController struct{}

const dateLayout = "2006-01-02"

// bucket is one reporting interval. End is exclusive.
type bucket struct {
	Start time.Time
	End   time.Time
}

// periodStep maps a period name to its fixed bucket width. Buckets are
// fixed-width windows, not calendar months/years.
func periodStep(period string) (time.Duration, error) {
	switch period {
	case "weekly":
		return 7 * 24 * time.Hour, nil
	case "monthly":
		return 30 * 24 * time.Hour, nil
	case "yearly":
		return 365 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid period %q", period)
	}
}

// walkBuckets splits [start, end] into fixed-width buckets. The walk is
// inclusive of end: a final partial window still yields a bucket.
func walkBuckets(start, end time.Time, step time.Duration) []bucket {
	var buckets []bucket
	for cursor := start; !cursor.After(end); cursor = cursor.Add(step) {
		buckets = append(buckets, bucket{Start: cursor, End: cursor.Add(step)})
	}
	return buckets
}

// statsCacheKey builds the Redis key for one report. Identical requests
// always map to the same key so cache hits replay identical bytes.
func statsCacheKey(metric, period string, start, end time.Time) string {
	return fmt.Sprintf("stats:%s:%s:%s:%s",
		metric, period, start.Format(dateLayout), end.Format(dateLayout))
}

// parseReportRange reads period/start_date/end_date from the query string.
// Defaults: monthly period, end = today, start = end minus 90 days.
func parseReportRange(c *fiber.Ctx) (period string, start, end time.Time, step time.Duration, err error) {
	period = c.Query("period", "monthly")
	step, err = periodStep(period)
	if err != nil {
		return
	}

	now := time.Now().Truncate(24 * time.Hour)
	end = now
	if raw := c.Query("end_date"); raw != "" {
		end, err = time.Parse(dateLayout, raw)
		if err != nil {
			err = fmt.Errorf("invalid end_date %q", raw)
			return
		}
	}

	start = end.AddDate(0, 0, -90)
	if raw := c.Query("start_date"); raw != "" {
		start, err = time.Parse(dateLayout, raw)
		if err != nil {
			err = fmt.Errorf("invalid start_date %q", raw)
			return
		}
	}

	if start.After(end) {
		err = fmt.Errorf("start_date after end_date")
	}
	return
}

// serveCached is the read-through cache wrapper. On a hit the stored
// bytes are replayed untouched; on a miss build runs, the marshaled
// response is stored with the configured TTL, and the same bytes are
// sent. With Redis down it degrades to building every request.
func serveCached(c *fiber.Ctx, key string, build func() (interface{}, error)) error {
	rc := database.GetRedisClient()
	ctx := context.Background()

	if rc != nil {
		if raw, err := rc.Get(ctx, key).Bytes(); err == nil {
			c.Set("X-Cache", "HIT")
			return c.Type("json").Send(raw)
		}
	}

	payload, err := build()
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Statistics query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build statistics",
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode statistics",
		})
	}

	if rc != nil {
		ttl := time.Hour
		if config.AppConfig != nil && config.AppConfig.StatsCacheTTL > 0 {
			ttl = config.AppConfig.StatsCacheTTL
		}
		if err := rc.Set(ctx, key, raw, ttl).Err(); err != nil {
			logrus.WithError(err).Warn("Failed to cache statistics")
		}
	}

	c.Set("X-Cache", "MISS")
	return c.Type("json").Send(raw)
}

type memberBucketRow struct {
	PeriodStart      string `json:"period_start"`
	PeriodEnd        string `json:"period_end"`
	MemberCount      int64  `json:"member_count"`
	NewMembers       int64  `json:"new_members"`
	CancelledMembers int64  `json:"cancelled_members"`
}

// memberBucketStats aggregates membership movement for one bucket.
// Shared between the JSON report and the xlsx export.
func memberBucketStats(b bucket) (memberBucketRow, error) {
	row := memberBucketRow{
		PeriodStart: b.Start.Format(dateLayout),
		PeriodEnd:   b.End.Format(dateLayout),
	}

	// Members counted as active at bucket end: joined before the
	// window closed and not cancelled inside it.
	if err := database.DB.Model(&models.MemberProfile{}).
		Where("join_date IS NOT NULL AND join_date < ?", b.End).
		Where("cancellation_date IS NULL OR cancellation_date >= ?", b.End).
		Count(&row.MemberCount).Error; err != nil {
		return row, err
	}
	if err := database.DB.Model(&models.MemberProfile{}).
		Where("join_date >= ? AND join_date < ?", b.Start, b.End).
		Count(&row.NewMembers).Error; err != nil {
		return row, err
	}
	if err := database.DB.Model(&models.MemberProfile{}).
		Where("cancellation_date >= ? AND cancellation_date < ?", b.Start, b.End).
		Count(&row.CancelledMembers).Error; err != nil {
		return row, err
	}
	return row, nil
}

// GetMemberStatistics reports membership movement per bucket (admin)
func (sc *StatisticsController) GetMemberStatistics(c *fiber.Ctx) error {
	period, start, end, step, err := parseReportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	key := statsCacheKey("members", period, start, end)
	return serveCached(c, key, func() (interface{}, error) {
		buckets := walkBuckets(start, end, step)
		rows := make([]memberBucketRow, 0, len(buckets))

		for _, b := range buckets {
			row, err := memberBucketStats(b)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		return fiber.Map{
			"period":     period,
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
			"buckets":    rows,
		}, nil
	})
}

type revenueBucketRow struct {
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
	TotalRevenue float64 `json:"total_revenue"`
	PaymentCount int64   `json:"payment_count"`
}

// revenueBucketStats aggregates successful-payment revenue for one
// bucket. Shared between the JSON report and the xlsx export.
func revenueBucketStats(b bucket) (revenueBucketRow, error) {
	row := revenueBucketRow{
		PeriodStart: b.Start.Format(dateLayout),
		PeriodEnd:   b.End.Format(dateLayout),
	}

	scoped := func() *gorm.DB {
		return database.DB.Model(&models.Payment{}).
			Where("status = ?", models.PaymentStatusSuccess).
			Where("date_paid >= ? AND date_paid < ?", b.Start, b.End)
	}
	if err := scoped().Count(&row.PaymentCount).Error; err != nil {
		return row, err
	}
	if err := scoped().Select("COALESCE(SUM(amount), 0)").Scan(&row.TotalRevenue).Error; err != nil {
		return row, err
	}
	return row, nil
}

// GetRevenueStatistics reports successful-payment revenue per bucket (admin)
func (sc *StatisticsController) GetRevenueStatistics(c *fiber.Ctx) error {
	period, start, end, step, err := parseReportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	key := statsCacheKey("revenue", period, start, end)
	return serveCached(c, key, func() (interface{}, error) {
		buckets := walkBuckets(start, end, step)
		rows := make([]revenueBucketRow, 0, len(buckets))

		for _, b := range buckets {
			row, err := revenueBucketStats(b)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		return fiber.Map{
			"period":     period,
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
			"buckets":    rows,
		}, nil
	})
}

type classBucketRow struct {
	PeriodStart string               `json:"period_start"`
	PeriodEnd   string               `json:"period_end"`
	Enrollments int64                `json:"enrollments"`
	Classes     []classEnrollmentRow `json:"classes"`
}

type classEnrollmentRow struct {
	ClassID     uint   `json:"class_id"`
	ClassName   string `json:"class_name"`
	Enrollments int64  `json:"enrollments"`
}

// GetClassStatistics reports enrollment volume per bucket, broken down
// by class (admin). Optional class_id / trainer_id filters.
func (sc *StatisticsController) GetClassStatistics(c *fiber.Ctx) error {
	period, start, end, step, err := parseReportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	classID := c.Query("class_id")
	trainerID := c.Query("trainer_id")
	key := statsCacheKey("classes", period, start, end)
	if classID != "" || trainerID != "" {
		key = fmt.Sprintf("%s:c=%s:t=%s", key, classID, trainerID)
	}

	return serveCached(c, key, func() (interface{}, error) {
		buckets := walkBuckets(start, end, step)
		rows := make([]classBucketRow, 0, len(buckets))

		for _, b := range buckets {
			row := classBucketRow{
				PeriodStart: b.Start.Format(dateLayout),
				PeriodEnd:   b.End.Format(dateLayout),
				Classes:     []classEnrollmentRow{},
			}

			scoped := func() *gorm.DB {
				q := database.DB.Model(&models.Enrollment{}).
					Joins("JOIN classes ON classes.id = enrollments.class_id").
					Where("enrollments.created_at >= ? AND enrollments.created_at < ?", b.Start, b.End)
				if classID != "" {
					q = q.Where("enrollments.class_id = ?", classID)
				}
				if trainerID != "" {
					q = q.Where("classes.trainer_id = ?", trainerID)
				}
				return q
			}

			if err := scoped().Count(&row.Enrollments).Error; err != nil {
				return nil, err
			}
			if err := scoped().
				Select("classes.id AS class_id, classes.name AS class_name, COUNT(*) AS enrollments").
				Group("classes.id, classes.name").
				Order("enrollments DESC").
				Scan(&row.Classes).Error; err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		return fiber.Map{
			"period":     period,
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
			"buckets":    rows,
		}, nil
	})
}

// GetClassSummary reports the current standing of one class: occupancy
// and revenue from its members' successful payments (admin)
func (sc *StatisticsController) GetClassSummary(c *fiber.Ctx) error {
	classID, err := strconv.ParseUint(c.Query("class_id"), 10, 32)
	if err != nil || classID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "class_id is required",
		})
	}

	var class models.Class
	if err := database.DB.Unscoped().First(&class, uint(classID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	key := fmt.Sprintf("stats:class-summary:%d", class.ID)
	return serveCached(c, key, func() (interface{}, error) {
		var enrollmentCount int64
		if err := database.DB.Model(&models.Enrollment{}).
			Where("class_id = ?", class.ID).Count(&enrollmentCount).Error; err != nil {
			return nil, err
		}

		var revenue float64
		if err := database.DB.Model(&models.Payment{}).
			Where("status = ?", models.PaymentStatusSuccess).
			Where("member_id IN (?)", database.DB.Model(&models.Enrollment{}).
				Select("member_id").Where("class_id = ?", class.ID)).
			Select("COALESCE(SUM(amount), 0)").Scan(&revenue).Error; err != nil {
			return nil, err
		}

		occupancy := 0.0
		if class.MaxMembers > 0 {
			occupancy = float64(class.CurrentMembers) / float64(class.MaxMembers)
		}

		return fiber.Map{
			"class_id":         class.ID,
			"class_name":       class.Name,
			"status":           class.Status,
			"deleted":          class.DeletedAt.Valid,
			"enrollment_count": enrollmentCount,
			"current_members":  class.CurrentMembers,
			"max_members":      class.MaxMembers,
			"occupancy_rate":   occupancy,
			"total_revenue":    revenue,
		}, nil
	})
}

// GetDashboardOverview reports headline totals for the admin dashboard
func (sc *StatisticsController) GetDashboardOverview(c *fiber.Ctx) error {
	key := "stats:dashboard-overview"
	return serveCached(c, key, func() (interface{}, error) {
		var members, trainers, activeClasses, pendingEnrollments int64

		if err := database.DB.Model(&models.MemberProfile{}).
			Where("cancellation_date IS NULL").Count(&members).Error; err != nil {
			return nil, err
		}
		if err := database.DB.Model(&models.User{}).
			Where("role = ? AND active = ?", models.RoleTrainer, true).Count(&trainers).Error; err != nil {
			return nil, err
		}
		if err := database.DB.Model(&models.Class{}).
			Where("status = ?", models.ClassActive).Count(&activeClasses).Error; err != nil {
			return nil, err
		}
		if err := database.DB.Model(&models.Enrollment{}).
			Where("status = ?", models.EnrollmentPending).Count(&pendingEnrollments).Error; err != nil {
			return nil, err
		}

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		var monthRevenue float64
		if err := database.DB.Model(&models.Payment{}).
			Where("status = ? AND date_paid >= ?", models.PaymentStatusSuccess, monthStart).
			Select("COALESCE(SUM(amount), 0)").Scan(&monthRevenue).Error; err != nil {
			return nil, err
		}

		return fiber.Map{
			"members":               members,
			"trainers":              trainers,
			"active_classes":        activeClasses,
			"pending_enrollments":   pendingEnrollments,
			"month_to_date_revenue": monthRevenue,
		}, nil
	})
}

type classPerformanceRow struct {
	ClassID         uint    `json:"class_id"`
	ClassName       string  `json:"class_name"`
	TrainerID       uint    `json:"trainer_id"`
	EnrollmentCount int64   `json:"enrollment_count"`
	MaxMembers      int     `json:"max_members"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

// GetClassPerformance ranks classes by enrollment count (admin)
func (sc *StatisticsController) GetClassPerformance(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid limit",
		})
	}
	if limit > 100 {
		limit = 100
	}

	key := fmt.Sprintf("stats:class-performance:%d", limit)
	return serveCached(c, key, func() (interface{}, error) {
		var rows []classPerformanceRow
		if err := database.DB.Model(&models.Class{}).
			Select("classes.id AS class_id, classes.name AS class_name, classes.trainer_id, " +
				"classes.max_members, COUNT(enrollments.id) AS enrollment_count").
			Joins("LEFT JOIN enrollments ON enrollments.class_id = classes.id").
			Group("classes.id, classes.name, classes.trainer_id, classes.max_members").
			Order("enrollment_count DESC").
			Limit(limit).
			Scan(&rows).Error; err != nil {
			return nil, err
		}

		for i := range rows {
			if rows[i].MaxMembers > 0 {
				rows[i].OccupancyRate = float64(rows[i].EnrollmentCount) / float64(rows[i].MaxMembers)
			}
		}

		return fiber.Map{
			"classes": rows,
		}, nil
	})
}

// GetClassMembers returns the member roster of a class (admin)
func (sc *StatisticsController) GetClassMembers(c *fiber.Ctx) error {
	classID, err := strconv.ParseUint(c.Query("class_id"), 10, 32)
	if err != nil || classID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "class_id is required",
		})
	}

	var class models.Class
	if err := database.DB.Unscoped().First(&class, uint(classID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var enrollments []models.Enrollment
	if err := database.DB.Preload("Member.User").
		Where("class_id = ?", class.ID).Order("id ASC").Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch class members",
		})
	}

	members := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		members = append(members, fiber.Map{
			"member_id":         e.MemberID,
			"full_name":         e.Member.User.FullName,
			"payment_status":    e.Member.PaymentStatus,
			"enrollment_status": e.Status,
			"enrolled_at":       e.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"class_id":   class.ID,
		"class_name": class.Name,
		"members":    members,
	})
}

// buildStatisticsWorkbook lays the aggregated rows out as an xlsx
// workbook with one sheet per report.
func buildStatisticsWorkbook(membership []memberBucketRow, revenue []revenueBucketRow) *excelize.File {
	f := excelize.NewFile()

	membershipSheet := "Membership"
	f.SetSheetName("Sheet1", membershipSheet)
	f.SetSheetRow(membershipSheet, "A1", &[]interface{}{
		"Period Start", "Period End", "Member Count", "New Members", "Cancelled Members",
	})
	for i, row := range membership {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(membershipSheet, cell, &[]interface{}{
			row.PeriodStart, row.PeriodEnd,
			row.MemberCount, row.NewMembers, row.CancelledMembers,
		})
	}

	revenueSheet := "Revenue"
	f.NewSheet(revenueSheet)
	f.SetSheetRow(revenueSheet, "A1", &[]interface{}{
		"Period Start", "Period End", "Total Revenue", "Payment Count",
	})
	for i, row := range revenue {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(revenueSheet, cell, &[]interface{}{
			row.PeriodStart, row.PeriodEnd,
			row.TotalRevenue, row.PaymentCount,
		})
	}

	return f
}

// ExportStatistics writes an xlsx workbook with membership and revenue
// sheets for the requested range (admin)
func (sc *StatisticsController) ExportStatistics(c *fiber.Ctx) error {
	period, start, end, step, err := parseReportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	buckets := walkBuckets(start, end, step)
	membership := make([]memberBucketRow, 0, len(buckets))
	revenue := make([]revenueBucketRow, 0, len(buckets))
	for _, b := range buckets {
		mRow, err := memberBucketStats(b)
		if err != nil {
			logrus.WithError(err).Error("Statistics export query failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to build export",
			})
		}
		rRow, err := revenueBucketStats(b)
		if err != nil {
			logrus.WithError(err).Error("Statistics export query failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to build export",
			})
		}
		membership = append(membership, mRow)
		revenue = append(revenue, rRow)
	}

	f := buildStatisticsWorkbook(membership, revenue)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		logrus.WithError(err).Error("Failed to build statistics workbook")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export",
		})
	}

	middleware.LogActivity(c, "EXPORT", "statistics", 0, fiber.Map{
		"period":     period,
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
	})

	filename := fmt.Sprintf("statistics_%s_%s.xlsx", start.Format(dateLayout), end.Format(dateLayout))
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}
