// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Redis and Kafka are optional and nil when not configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Redis         redis.UniversalClient
	Kafka         *notify.KafkaPublisher
}
