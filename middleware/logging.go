package middleware

import (
	"context"
	"encoding/json"
	"sportcenter_go/database"
	"sportcenter_go/models"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const activityLogQueueKey = "activity_logs:queue"

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// LogActivity records an audit row for a mutating request. Writes go
// through a Redis queue when available so the request path never waits on
// the audit table; the scheduler drains the queue into the database.
func LogActivity(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	user, err := GetCurrentUser(c)
	if err != nil {
		// No authenticated user, log as system action
		user = &models.User{BaseModel: models.BaseModel{ID: 0}}
	}

	var detailsJSON string
	if details != nil {
		if detailsBytes, err := json.Marshal(details); err == nil {
			detailsJSON = string(detailsBytes)
		}
	}

	activityLog := models.ActivityLog{
		UserID:     user.ID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    detailsJSON,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}

	go func(al models.ActivityLog) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in LogActivity goroutine")
			}
		}()

		if err := queueActivityLog(al); err != nil {
			if database.DB == nil {
				logrus.Error("database.DB is nil; cannot save activity log")
				return
			}
			if dbErr := database.DB.Create(&al).Error; dbErr != nil {
				logrus.WithError(dbErr).Error("Failed to save activity log to database")
			}
		}
	}(activityLog)
}

// queueActivityLog pushes the log entry onto the Redis queue.
func queueActivityLog(al models.ActivityLog) error {
	rc := database.GetRedisClient()
	if rc == nil {
		return redis.ErrClosed
	}

	payload, err := json.Marshal(al)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := rc.RPush(ctx, activityLogQueueKey, payload).Err(); err != nil {
		return err
	}
	// Safety TTL so an idle queue cannot grow stale forever
	return rc.Expire(ctx, activityLogQueueKey, 24*time.Hour).Err()
}

// FlushActivityLogs drains the Redis queue into the database. Called by
// the scheduler; safe to call with Redis unavailable.
func FlushActivityLogs() (int, error) {
	rc := database.GetRedisClient()
	if rc == nil {
		return 0, nil
	}

	ctx := context.Background()
	flushed := 0
	for {
		payload, err := rc.LPop(ctx, activityLogQueueKey).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return flushed, err
		}

		var al models.ActivityLog
		if err := json.Unmarshal(payload, &al); err != nil {
			logrus.WithError(err).Warn("Dropping malformed activity log entry")
			continue
		}
		if err := database.DB.Create(&al).Error; err != nil {
			return flushed, err
		}
		flushed++
	}
	return flushed, nil
}
