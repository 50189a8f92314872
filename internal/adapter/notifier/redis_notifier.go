package notifier

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// RedisNotifier publica eventos en un canal de Redis pub/sub
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  logger.Logger
}

// NewRedisNotifier crea una nueva instancia de RedisNotifier
func NewRedisNotifier(client *redis.Client, channel string, logger logger.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// Publish implementa Notifier. Los errores de publicación solo se
// registran: un broker caído nunca bloquea una venta.
func (n *RedisNotifier) Publish(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("error al serializar evento", "type", event.Type, "error", err)
		return
	}
	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		n.logger.Warn("no se pudo publicar evento", "type", event.Type, "channel", n.channel, "error", err)
	}
}
