package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sportcenter_go/config"
	"sportcenter_go/database"
	"sportcenter_go/models"
	"sportcenter_go/services/push"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Queue item structure stored in Redis. Kept minimal to reduce payload
// size; one item may target many members with the same message.
type queuedNotification struct {
	MemberIDs []uint    `json:"member_ids"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

const redisListKey = "notifications:queue"

// Service creates notifications and dispatches device push. If Redis is
// disabled or unavailable it performs direct DB inserts.
type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	useRedis bool
	pusher   *push.Client
}

func NewService() *Service {
	return &Service{
		db:       database.GetDB(),
		redis:    database.GetRedisClient(),
		useRedis: config.AppConfig != nil && config.AppConfig.UseRedisNotifications && database.GetRedisClient() != nil,
		pusher:   push.NewClient(),
	}
}

// Notify creates a notification for each member and pushes to their
// registered devices. With Redis enabled the DB write is deferred to the
// worker; push dispatch always happens immediately.
func (s *Service) Notify(memberIDs []uint, message, notificationType string) error {
	if len(memberIDs) == 0 {
		return errors.New("no recipients")
	}

	if s.useRedis {
		item := queuedNotification{
			MemberIDs: memberIDs,
			Message:   message,
			Type:      notificationType,
			CreatedAt: time.Now(),
		}
		payload, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := s.redis.RPush(context.Background(), redisListKey, payload).Err(); err != nil {
			logrus.WithError(err).Warn("Redis enqueue failed, falling back to direct insert")
			if err := s.insert(memberIDs, message, notificationType); err != nil {
				return err
			}
		}
	} else {
		if err := s.insert(memberIDs, message, notificationType); err != nil {
			return err
		}
	}

	s.dispatchPush(memberIDs, message, notificationType)
	return nil
}

// NotifyAllMembers sends the message to every active member.
func (s *Service) NotifyAllMembers(message, notificationType string) error {
	var ids []uint
	if err := s.db.Model(&models.MemberProfile{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.Notify(ids, message, notificationType)
}

func (s *Service) insert(memberIDs []uint, message, notificationType string) error {
	notifications := make([]models.Notification, 0, len(memberIDs))
	for _, id := range memberIDs {
		notifications = append(notifications, models.Notification{
			MemberID: id,
			Message:  message,
			Type:     notificationType,
		})
	}
	return s.db.Create(&notifications).Error
}

// dispatchPush sends device push to every member with a registered token.
// Failures are logged by the push client and never fail the caller.
func (s *Service) dispatchPush(memberIDs []uint, message, notificationType string) {
	var profiles []models.MemberProfile
	if err := s.db.Where("id IN ? AND push_token <> ''", memberIDs).Find(&profiles).Error; err != nil {
		logrus.WithError(err).Warn("Failed to load push tokens")
		return
	}
	for _, p := range profiles {
		s.pusher.SendAsync(p.PushToken, "Sport Center", message, notificationType)
	}
}

// StartWorker drains the Redis queue into the database until stop closes.
func (s *Service) StartWorker(stop chan struct{}) {
	if !s.useRedis {
		return
	}
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}

			ctx := context.Background()
			payload, err := s.redis.BLPop(ctx, 5*time.Second, redisListKey).Result()
			if err != nil {
				if err != redis.Nil {
					logrus.WithError(err).Warn("Notification queue pop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			// BLPop returns [key, value]
			if len(payload) < 2 {
				continue
			}

			var item queuedNotification
			if err := json.Unmarshal([]byte(payload[1]), &item); err != nil {
				logrus.WithError(err).Warn("Dropping malformed queued notification")
				continue
			}
			if err := s.insert(item.MemberIDs, item.Message, item.Type); err != nil {
				logrus.WithError(err).Error("Failed to persist queued notification")
			}
		}
	}()
}
