package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/api"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/api/middleware"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cache"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/config"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/proxy"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (audit trail and cache warming worker), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if os.Getenv("LOG_VERBOSE") == "true" {
		logging.SetVerbose(true)
	}

	// Redis is optional for the API (byte cache, audit trail) and required by the worker.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cache.DefaultMaxRetries)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if err := cache.DisconnectRedis(redisClient); err != nil {
				logging.Errorf("Error disconnecting from Redis: %v", err)
			}
		}()
	} else if cfg.RunMode == "bg" || cfg.RunMode == "all" {
		log.Fatalf("Run mode '%s' requires REDIS_ADDR", cfg.RunMode)
	}

	backend, err := client.New(cfg.BackendURL, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to create backend client: %v", err)
	}

	var objectStore storage.IObjectStore
	if cfg.MockServices {
		logging.Infof("MOCK_SERVICES enabled: S3 disabled, assets are fetched directly.")
	} else {
		objectStore, err = storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	}

	var blobCache cache.BlobCache
	if redisClient != nil {
		blobCache = cache.NewRedisBlobCache(redisClient, "backoffice:asset:", cfg.ProxyCacheTTL)
	}
	assetProxy := proxy.New(objectStore, blobCache, proxy.Options{
		Bucket:       cfg.AwsS3Bucket,
		Region:       cfg.AwsRegion,
		AllowedHosts: cfg.ProxyAllowedHosts,
		FetchTimeout: cfg.ProxyFetchTimeout,
		MaxDimension: cfg.ImageMaxDimension,
	})

	var taskClient *asynq.Client
	if redisClient != nil {
		taskClient = tasks.NewClient(redisClient)
		defer taskClient.Close()
	}

	var wg sync.WaitGroup

	shutdownChan := make(chan struct{}, 1)

	// Service API always runs.
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		logging.Infof("Service API listening on :%s", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
		logging.Infof("Service API server stopped.")
	}()

	var (
		mainApiSrv *http.Server
		taskSrv    *asynq.Server
		stopSweep  = make(chan struct{})
	)

	logging.Infof("Starting application in '%s' mode against %s", cfg.RunMode, cfg.BackendURL)

	apiMode := func() {
		sessionStorage := newSessionStorage(cfg, redisClient)
		sess := session.New(backend, session.NewSafeStorage(sessionStorage), session.WithLoginHook(logLogin))
		backend.SetTokenSource(sess)
		if err := sess.Init(context.Background()); err != nil {
			logging.Warnf("Starting with an empty session: %v", err)
		}

		notifier := admin.MultiNotifier{admin.LogNotifier{}}
		if taskClient != nil {
			notifier = append(notifier, tasks.NewAuditNotifier(taskClient))
		}
		dashboard := admin.NewDashboard(admin.Services{
			Agents:    services.NewAgentService(backend),
			ISVs:      services.NewISVService(backend),
			Resellers: services.NewResellerService(backend),
			Enquiries: services.NewEnquiryService(backend),
		}, notifier)

		limiter := middleware.NewRateLimiterMiddleware(cfg)
		go limiter.RunCleanup(time.Minute, stopSweep)

		mainApiSrv = &http.Server{
			Addr: ":" + cfg.ApiPort,
			Handler: api.SetupRouter(api.Deps{
				Config:    cfg,
				Session:   sess,
				Dashboard: dashboard,
				Uploads:   services.NewBulkUploadService(backend, cfg.BulkUploadMaxBytes()),
				Health:    services.NewHealthService(backend),
				Proxy:     assetProxy,
				Limiter:   limiter,
			}),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logging.Infof("Main API listening on :%s", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			logging.Infof("Main API server stopped.")
		}()
	}

	bgMode := func() {
		processor := tasks.NewTaskProcessor(tasks.NewRedisAuditLog(redisClient, tasks.DefaultAuditKey, 0), assetProxy)
		taskSrv = tasks.SetupServer(redisClient)
		// Start does not wait for signals; shutdown below owns that.
		if err := taskSrv.Start(processor.Mux()); err != nil {
			log.Fatalf("Background task server error: %v", err)
		}
		logging.Infof("Background task server started.")
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logging.Infof("Received signal: %s. Shutting down gracefully...", sig)
	case <-shutdownChan:
		logging.Infof("Shutdown requested via Service API. Shutting down gracefully...")
	}
	close(stopSweep)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		logging.Errorf("Service API server shutdown error: %v", err)
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			logging.Errorf("Main API server shutdown error: %v", err)
		}
	}
	if taskSrv != nil {
		taskSrv.Shutdown()
	}

	wg.Wait()
	logging.Infof("Server gracefully stopped")
}

func newSessionStorage(cfg *config.Config, rdb *redis.Client) session.Storage {
	if cfg.SessionStore == "redis" && rdb != nil {
		return session.NewRedisStorage(rdb, cfg.SessionKey, 0)
	}
	return session.NewFileStorage(cfg.SessionFile, cfg.SessionKey)
}

// logLogin records which fields a login response carried, never their values.
func logLogin(ctx context.Context, body json.RawMessage) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		logging.Infof("login response is not an object (%d bytes)", len(body))
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	logging.Infof("login response fields: %v", keys)
}
