package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const defaultMongoDatabase = "blogging-app"

type NewMongoClientParams struct {
	URI string
	// DatabaseName overrides the database given in the URI path
	DatabaseName string
	Timeout      time.Duration
	// CommandDuration, when set, observes every command with labels {command, status}
	CommandDuration *prometheus.HistogramVec
}

// NewMongoClient connects to the document store and returns the client
// together with the database the service works in.
func NewMongoClient(ctx context.Context, params NewMongoClientParams) (*mongo.Client, *mongo.Database, error) {
	dbName, err := MongoDatabaseName(params.URI, params.DatabaseName)
	if err != nil {
		return nil, nil, err
	}

	opts := options.Client().ApplyURI(params.URI)
	if params.Timeout > 0 {
		opts.SetTimeout(params.Timeout)
	}
	if params.CommandDuration != nil {
		opts.SetMonitor(commandMonitor(params.CommandDuration))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Warnf("failed to ping mongo: %s", err)
	}

	return client, client.Database(dbName), nil
}

// MongoDatabaseName picks the explicit name, then the URI path, then the default.
func MongoDatabaseName(uri, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if uri == "" {
		return "", errors.New("empty mongo uri")
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return defaultMongoDatabase, nil
}

func commandMonitor(hist *prometheus.HistogramVec) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			hist.WithLabelValues(e.CommandName, "ok").Observe(e.Duration.Seconds())
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			hist.WithLabelValues(e.CommandName, "error").Observe(e.Duration.Seconds())
		},
	}
}
