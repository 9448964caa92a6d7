package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"booth-client/internal/api"
	"booth-client/internal/auth"
	"booth-client/internal/cache"
	"booth-client/internal/config"
	"booth-client/internal/env"
	"booth-client/internal/event"
	"booth-client/internal/logger"
	"booth-client/internal/models"
	"booth-client/internal/order"
	orderredis "booth-client/internal/order/redis"
	"booth-client/internal/product"
	"booth-client/internal/shell"
	"booth-client/internal/stats"
	boothsync "booth-client/internal/sync"
	"booth-client/internal/web"
)

const usage = `usage: booth-cli <command>

commands:
  events              list events on the configured server
  watch <eventId>     poll pending orders for an event and serve booth status
  serve <eventId>     serve booth status without polling, from the last cached snapshot
  catalog             list the product catalog, falling back to the local cache
  export              export the product catalog archive from the server
  import <path>       import a product catalog archive from a local file
  stats <eventId>     print the sales summary for an event
  synclog             print the recent export/import audit trail
`

// app carries everything a command needs, wired once in main.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	client  *api.Client
	cache   *cache.DB
	environ env.Environment
	shell   shell.Shell
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	a := &app{
		cfg:     cfg,
		logger:  log,
		client:  api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log),
		environ: env.Detect(cfg.Shell.NativeBridge, cfg.Shell.UserAgent),
	}
	a.shell = &shell.Desktop{SaveDir: cfg.Shell.DownloadsDir}
	log.Info("APP", fmt.Sprintf("Running as %s client against %s", a.environ, cfg.API.BaseURL))

	if cfg.Cache.Enabled {
		db, err := cache.Open(cfg.Cache.Path, log)
		if err != nil {
			log.Warn("CACHE", fmt.Sprintf("Local cache unavailable, continuing without it: %v", err))
		} else if err := db.Init(ctx); err != nil {
			log.Warn("CACHE", fmt.Sprintf("Local cache init failed, continuing without it: %v", err))
			db.Close()
		} else {
			a.cache = db
			defer db.Close()
		}
	}

	var err error
	switch os.Args[1] {
	case "events":
		err = a.runEvents(ctx)
	case "watch":
		err = a.runWatch(ctx, os.Args[2:])
	case "serve":
		err = a.runServe(ctx, os.Args[2:])
	case "catalog":
		err = a.runCatalog(ctx)
	case "export":
		err = a.runExport(ctx)
	case "import":
		err = a.runImport(ctx, os.Args[2:])
	case "stats":
		err = a.runStats(ctx, os.Args[2:])
	case "synclog":
		err = a.runSyncLog(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error("APP", err.Error())
		fmt.Fprintln(os.Stderr, "error:", api.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

// login authenticates when BOOTH_PASSWORD is set; anonymous otherwise.
func (a *app) login(ctx context.Context, eventID *int64) error {
	password := os.Getenv("BOOTH_PASSWORD")
	if password == "" {
		return nil
	}
	role := os.Getenv("BOOTH_ROLE")
	if role == "" {
		role = models.RoleVendor
	}

	sessions := auth.NewStore(a.client, a.client, a.logger)
	session, err := sessions.Login(ctx, password, role, eventID)
	if err != nil {
		return err
	}
	a.logger.Info("AUTH", fmt.Sprintf("Logged in as %s (%s access)", session.Role, session.Access))
	return nil
}

func (a *app) runEvents(ctx context.Context) error {
	if err := a.login(ctx, nil); err != nil {
		return err
	}

	store := event.NewStore(a.client, a.logger)
	events, err := store.Fetch(ctx)
	if err != nil {
		return err
	}

	for _, ev := range events {
		fmt.Printf("%4d  %-10s  %-12s  %s\n", ev.ID, ev.Status, ev.Date, ev.Name)
	}
	return nil
}

func (a *app) runWatch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("watch requires an event id")
	}
	eventID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}

	if err := a.login(ctx, &eventID); err != nil {
		return err
	}

	var claims order.ClaimLock
	if a.cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: a.cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection error: %w", err)
		}
		defer redisClient.Close()

		terminalID := a.cfg.Redis.TerminalID
		if terminalID == "" {
			terminalID = uuid.New().String()
		}
		claims = orderredis.NewRedis(redisClient, terminalID, a.cfg.Redis.ClaimTTL, a.logger)
		a.logger.Info("REDIS", fmt.Sprintf("Order claims enabled for terminal %s", terminalID))
	}

	var snapshots order.SnapshotCache
	if a.cache != nil {
		snapshots = a.cache
	}

	orders := order.NewStore(a.client, claims, snapshots, a.cfg.Poll.Interval, a.logger)
	orders.SetActiveEvent(ctx, eventID)
	defer orders.StopPolling()

	a.logger.Info("APP", fmt.Sprintf("Watching event %d, waiting for shutdown signal", eventID))
	return a.serveStatus(ctx, orders)
}

// runServe brings up the status server from the last cached snapshot, for
// booths whose network is down. One live fetch is attempted first so a
// reachable backend still wins.
func (a *app) runServe(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("serve requires an event id")
	}
	eventID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}

	var snapshots order.SnapshotCache
	if a.cache != nil {
		snapshots = a.cache
	}

	orders := order.NewStore(a.client, nil, snapshots, a.cfg.Poll.Interval, a.logger)
	orders.TrackEvent(eventID)

	if err := orders.PollPending(ctx); err != nil {
		a.logger.Warn("APP", fmt.Sprintf("Backend unreachable, serving cached state: %v", err))
		if err := orders.LoadCached(ctx); err != nil {
			return fmt.Errorf("no live or cached orders for event %d: %w", eventID, err)
		}
	} else if err := orders.FetchCompleted(ctx); err != nil {
		a.logger.Warn("APP", fmt.Sprintf("Could not fetch completed orders: %v", err))
	}

	a.logger.Info("APP", fmt.Sprintf("Serving status for event %d without polling", eventID))
	return a.serveStatus(ctx, orders)
}

// serveStatus runs the booth status server until an interrupt arrives.
func (a *app) serveStatus(ctx context.Context, orders *order.Store) error {
	server := web.NewServer(a.cfg.Web, orders, a.logger)
	go func() {
		if err := server.Start(); err != nil {
			a.logger.Fatal("HTTP", fmt.Sprintf("Booth status server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	a.logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		a.logger.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	}
	return nil
}

// runCatalog lists the master catalog; when the backend is down the last
// cached copy is shown instead.
func (a *app) runCatalog(ctx context.Context) error {
	if err := a.login(ctx, nil); err != nil {
		return err
	}

	var catalogCache product.CatalogCache
	if a.cache != nil {
		catalogCache = a.cache
	}

	store := product.NewStore(a.client, catalogCache, a.logger)
	products, err := store.Fetch(ctx, true)
	if err != nil {
		return err
	}

	for _, p := range products {
		state := "active"
		if !p.IsActive {
			state = "inactive"
		}
		fmt.Printf("%4d  %-12s  %8.2f  %-8s  %s\n", p.ID, p.ProductCode, p.DefaultPrice, state, p.Name)
	}
	return nil
}

func (a *app) runSyncLog(ctx context.Context) error {
	if a.cache == nil {
		return fmt.Errorf("the sync log lives in the local cache; enable it with CACHE_ENABLED")
	}

	entries, err := a.cache.RecentSyncLog(ctx, 20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no sync runs recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-6s  %-9s  %8d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Direction, e.Outcome, e.Size, e.Filename)
	}
	return nil
}

func (a *app) newSyncAdapter() *boothsync.Adapter {
	strategies := boothsync.StrategiesFor(a.environ, a.shell, a.cfg.Shell.DownloadsDir, a.logger)

	var audit boothsync.AuditSink
	if a.cache != nil {
		audit = a.cache
	}
	return boothsync.NewAdapter(a.client, a.shell, strategies, a.logger, audit)
}

func (a *app) runExport(ctx context.Context) error {
	if err := a.login(ctx, nil); err != nil {
		return err
	}

	result, err := a.newSyncAdapter().Export(ctx)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Println("export cancelled")
		return nil
	}
	fmt.Printf("exported %s via %s", result.Filename, result.Method)
	if result.Path != "" {
		fmt.Printf(" to %s", result.Path)
	}
	fmt.Println()
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("import requires a file path")
	}
	if err := a.login(ctx, nil); err != nil {
		return err
	}

	result, err := a.newSyncAdapter().ImportFromPath(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func (a *app) runStats(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("stats requires an event id")
	}
	eventID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}

	if err := a.login(ctx, &eventID); err != nil {
		return err
	}

	store := stats.NewStore(a.client, a.logger)
	if err := store.SetActiveEvent(ctx, eventID, false); err != nil {
		return err
	}
	report := store.Stats()
	if report == nil {
		return fmt.Errorf("no stats loaded for event %d", eventID)
	}

	fmt.Printf("%s (%s)\n", report.EventInfo.Name, report.EventInfo.Date)
	fmt.Printf("revenue: %.2f  completed orders: %d  items sold: %d\n",
		report.Summary.TotalRevenue, report.Summary.CompletedOrdersCount, report.Summary.TotalItemsSold)
	for _, p := range report.ProductDetails {
		fmt.Printf("  %-24s sold %4d  revenue %10.2f\n", p.ProductName, p.TotalQuantity, p.TotalRevenuePerItem)
	}
	return nil
}
