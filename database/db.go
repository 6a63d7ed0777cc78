package database

import (
	"context"
	"log"
	"time"

	"mentorhub/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// databaseName is the single database holding all marketplace
// collections (slots, sessions, payments, disputes, profiles).
const databaseName = "mentorhub"

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// InitDB connects and pings MongoDB. Every repository hangs off this
// connection, so failure is fatal at startup.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("[DB] ping failed: %v", err)
	}
	MongoClient = client
	log.Printf("[DB] connected, using database %q", databaseName)
}

// DB returns the handle repositories derive their collections from.
func DB() *mongo.Database {
	return MongoClient.Database(databaseName)
}
