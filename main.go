package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matst80/slask-facets/pkg/cache"
	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/server"
	"github.com/matst80/slask-facets/pkg/storage"
	ffSync "github.com/matst80/slask-facets/pkg/sync"
	"github.com/matst80/slask-facets/pkg/tracking"
	"github.com/matst80/slask-facets/pkg/types"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var publishChanges = flag.Bool("publish", false, "publish admin item replacements to rabbit")
var rabbitVHost = os.Getenv("RABBIT_HOST")
var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitPrefix = os.Getenv("RABBIT_PREFIX")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var dataDir = envOrDefault("DATA_DIR", "data")
var adminSecret = os.Getenv("ADMIN_SECRET")
var country = envOrDefault("COUNTRY", "se")
var listenAddress = envOrDefault("LISTEN_ADDRESS", ":8080")
var debugAddress = envOrDefault("DEBUG_ADDRESS", ":8081")
var nodeId = envOrDefault("NODE_NAME", uuid.NewString())

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func loadCatalog(diskStorage *storage.DiskStorage) *server.Catalog {
	items, err := diskStorage.LoadItems()
	if err != nil {
		log.Printf("Could not load items, starting empty: %v", err)
		items = []types.DataItem{}
	}
	categories, err := diskStorage.LoadCategories()
	if err != nil {
		log.Printf("Could not load categories: %v", err)
		categories = []types.CategoryConfig{}
	}
	if err = server.ValidateCategories(categories); err != nil {
		log.Fatalf("Invalid category configuration: %v", err)
	}
	log.Printf("Loaded %d items in %d categories", len(items), len(categories))
	return server.NewCatalog(items, categories)
}

func connectRabbit(srv *server.WebServer, catalog *server.Catalog) []common.ShutdownHook {
	hooks := make([]common.ShutdownHook, 0)
	rabbitConfig := ffSync.RabbitConfig{
		Url:    rabbitUrl,
		VHost:  rabbitVHost,
		Prefix: rabbitPrefix,
		NodeId: nodeId,
	}
	if *publishChanges {
		publisher := &ffSync.RabbitItemsPublisher{RabbitConfig: rabbitConfig}
		if err := publisher.Connect(); err != nil {
			log.Fatalf("Failed to connect to RabbitMQ as publisher, %v", err)
		}
		srv.Publisher = publisher
		hooks = append(hooks, func(ctx context.Context) error {
			return publisher.Close()
		})
	}
	// A publishing node still listens so collections sent by cmd/writer or
	// other admin nodes reach it. Its own echo is skipped by node id.
	listener := &ffSync.RabbitItemsListener{RabbitConfig: rabbitConfig, Handler: catalog}
	if err := listener.Connect(); err != nil {
		log.Fatalf("Failed to connect to RabbitMQ as listener, %v", err)
	}
	hooks = append(hooks, func(ctx context.Context) error {
		return listener.Close()
	})
	log.Printf("Connected to RabbitMQ as node %s", nodeId)

	trk, err := tracking.NewRabbitTracking(rabbitUrl, country, nodeId)
	if err != nil {
		log.Printf("Failed to create rabbit tracking: %v", err)
		return hooks
	}
	srv.Tracking = trk
	return append(hooks, func(ctx context.Context) error {
		return trk.Close()
	})
}

func main() {
	flag.Parse()

	diskStorage := storage.NewDiskStorage(dataDir)
	catalog := loadCatalog(diskStorage)

	srv := server.NewWebServer(catalog)
	srv.Storage = diskStorage
	srv.AdminSecret = []byte(adminSecret)
	if adminSecret == "" {
		log.Println("No ADMIN_SECRET set, admin endpoints are disabled")
	}

	hooks := make([]common.ShutdownHook, 0)
	if redisUrl != "" {
		srv.Cache = cache.NewCache(redisUrl, redisPassword, 0)
		log.Printf("Facet cache enabled, url: %s", redisUrl)
		hooks = append(hooks, func(ctx context.Context) error {
			return srv.Cache.Close()
		})
	}
	if rabbitUrl != "" {
		hooks = append(hooks, connectRabbit(srv, catalog)...)
	}

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	if *enableProfiling {
		log.Println("Profiling enabled")
	}
	common.RunServersWithShutdown(context.Background(), "slask-facets", timeouts, []*http.Server{
		common.NewServer(listenAddress, srv.Handler(), timeouts),
		common.NewServer(debugAddress, server.DebugHandler(*enableProfiling), timeouts),
	}, hooks...)
}
