package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/questforge/questforge-backend/pkg/logging"
)

const notificationStream = "questforge:notifications"

// Publisher pushes completion notifications onto a Redis stream for the
// notification workers to deliver. Publishing is best-effort: a failed
// XAdd is logged and dropped, never surfaced to the request.
type Publisher struct {
	client *redis.Client
	logger logging.Logger
}

func NewPublisher(client *redis.Client, logger logging.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger.With("component", "event_publisher"),
	}
}

func (p *Publisher) publish(ctx context.Context, values map[string]interface{}) {
	if p.client == nil {
		return
	}
	values["published_at"] = time.Now().UTC().Format(time.RFC3339)

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: notificationStream,
		Values: values,
	}).Result()
	if err != nil {
		p.logger.Warnf("Failed to publish %v notification: %v", values["event"], err)
		return
	}
	p.logger.Debugf("Published %v notification with id %s", values["event"], id)
}

// PublishTaskCompleted announces a verified task completion
func (p *Publisher) PublishTaskCompleted(ctx context.Context, userID, questID, taskID, xpAwarded int64) {
	p.publish(ctx, map[string]interface{}{
		"event":      "task_completed",
		"user_id":    userID,
		"quest_id":   questID,
		"task_id":    taskID,
		"xp_awarded": xpAwarded,
	})
}

// PublishQuestCompleted announces that all tasks of a quest are done
func (p *Publisher) PublishQuestCompleted(ctx context.Context, userID, questID int64) {
	p.publish(ctx, map[string]interface{}{
		"event":    "quest_completed",
		"user_id":  userID,
		"quest_id": questID,
	})
}

// PublishRewardClaimed announces a successful reward claim
func (p *Publisher) PublishRewardClaimed(ctx context.Context, userID, questID int64, rewardAmount int64) {
	p.publish(ctx, map[string]interface{}{
		"event":         "reward_claimed",
		"user_id":       userID,
		"quest_id":      questID,
		"reward_amount": rewardAmount,
	})
}
