package repository

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

const indexTimeout = 5 * time.Second

// ensureIndexes creates models on coll. A failure is logged and the
// repository is still returned, so a slow or unreachable server does not
// block startup. Queries keep working without the indexes, but the record
// store loses its fork protection until they exist.
func ensureIndexes(coll *mongo.Collection, models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"collection": coll.Name(),
			"indexes":    len(models),
		}).Warn("failed to create indexes")
	}
}
