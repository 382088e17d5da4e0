package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/matst80/slask-facets/pkg/server"
	"github.com/matst80/slask-facets/pkg/storage"
	ffSync "github.com/matst80/slask-facets/pkg/sync"
)

var printToken = flag.String("token", "", "print an admin token for the given username and exit")
var tokenTtl = flag.Duration("ttl", 24*time.Hour, "admin token lifetime")

var dataDir = "data"

func init() {
	if d, ok := os.LookupEnv("DATA_DIR"); ok {
		dataDir = d
	}
}

// main publishes the item collection on disk to every listening node.
func main() {
	flag.Parse()

	if *printToken != "" {
		secret := os.Getenv("ADMIN_SECRET")
		if secret == "" {
			log.Fatal("ADMIN_SECRET environment variable is not set")
		}
		token, err := server.CreateAdminToken([]byte(secret), *printToken, *tokenTtl)
		if err != nil {
			log.Fatalf("Could not create token: %v", err)
		}
		fmt.Println(token)
		return
	}

	amqpUrl, ok := os.LookupEnv("RABBIT_URL")
	if !ok {
		log.Fatal("RABBIT_URL environment variable is not set")
	}
	items, err := storage.NewDiskStorage(dataDir).LoadItems()
	if err != nil {
		log.Fatalf("Could not load items from file: %v", err)
	}

	publisher := &ffSync.RabbitItemsPublisher{RabbitConfig: ffSync.RabbitConfig{
		Url:    amqpUrl,
		VHost:  os.Getenv("RABBIT_HOST"),
		Prefix: os.Getenv("RABBIT_PREFIX"),
		NodeId: "writer",
	}}
	if err = publisher.Connect(); err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	if err = publisher.SendItems(items); err != nil {
		log.Fatalf("Failed to publish items: %v", err)
	}
	log.Printf("Published %d items", len(items))
}
