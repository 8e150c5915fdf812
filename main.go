package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	apirest "github.com/gamestaff/itemadmin/api/rest"
	"github.com/gamestaff/itemadmin/audit"
	"github.com/gamestaff/itemadmin/browser"
	"github.com/gamestaff/itemadmin/cache"
	"github.com/gamestaff/itemadmin/character"
	"github.com/gamestaff/itemadmin/config"
	dbadapter "github.com/gamestaff/itemadmin/db"
	"github.com/gamestaff/itemadmin/framework"
	"github.com/gamestaff/itemadmin/icons"
	mw "github.com/gamestaff/itemadmin/middleware"
	"github.com/gamestaff/itemadmin/model"
	"github.com/gamestaff/itemadmin/safecoords"
	"github.com/gamestaff/itemadmin/scheduler"
	"github.com/gamestaff/itemadmin/users"
	"github.com/gamestaff/itemadmin/web"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfgPath := "config/config.json"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Security.Secret == "default-dev-key" {
		logger.Warn("security.secret is the development default; set SECRET in production")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	strategy, err := framework.New(cfg.App.Framework, cfg.App.Table, cfg.App.Order)
	if err != nil {
		log.Fatalf("framework: %v", err)
	}
	editor, err := character.New(db, cfg.App.CharactersTable)
	if err != nil {
		log.Fatalf("characters: %v", err)
	}
	// The MySQL schema belongs to the game server; only a local SQLite
	// database is created here.
	if cfg.Database.Mode == dbadapter.ModeSQLite {
		tables := []model.Table{strategy.ItemTable()}
		if strategy.SupportsCharacters() {
			tables = append(tables, editor.Table())
		}
		if err := model.AutoMigrate(db, tables...); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}
	logger.Info("DB initialized",
		zap.String("mode", cfg.Database.Mode),
		zap.String("framework", strategy.Name()),
		zap.String("table", strategy.Table()))

	// ---- Audit ----
	auditFile := audit.OpenFile(cfg.Storage.AuditLog, cfg.Storage.AuditMaxSizeMB, cfg.Storage.AuditMaxBackups)
	defer auditFile.Close()
	auditSvc := audit.New(auditFile, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Stores ----
	userStore, err := users.Open(cfg.Storage.UsersPath, cfg.App.AdminPassword, auditSvc)
	if err != nil {
		log.Fatalf("users: %v", err)
	}
	coordStore, err := safecoords.Open(cfg.Storage.SafeCoordsPath)
	if err != nil {
		log.Fatalf("safecoords: %v", err)
	}
	iconStore := icons.NewStore(cfg.UploadDirs)
	items := browser.New(db, strategy, iconStore)

	// ---- Cache ----
	c, err := cache.NewCache(cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddDaily("audit_rotate", 0, 0, func() {
		if err := auditFile.Rotate(); err != nil {
			logger.Error("audit log rotation failed", zap.Error(err))
		}
	})
	sched.AddTicker("db_ping", time.Minute, func() {
		if err := apirest.PingDB(context.Background(), db); err != nil {
			logger.Warn("database unreachable", zap.Error(err))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	allowIPs, err := mw.AllowIPs(cfg.Security.AllowedIPs)
	if err != nil {
		log.Fatalf("middleware: %v", err)
	}
	tmpl, err := web.Templates()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.SetHTMLTemplate(tmpl)
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger), allowIPs)
	r.Use(mw.RateLimit(ctx, rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	features := apirest.Features{
		AddItem:    cfg.App.EnableAddItem,
		Characters: cfg.App.EnableCharacters && strategy.SupportsCharacters(),
	}
	if cfg.App.EnableCharacters && !strategy.SupportsCharacters() {
		logger.Warn("character editor is only available for the vorp framework")
	}
	render := apirest.NewRenderer(cfg.App.Lang, features, logger)

	apirest.Register(r, apirest.Handlers{
		Auth:       apirest.NewAuthHandler(userStore, c, cfg.Security, render),
		Items:      apirest.NewItemHandler(items, iconStore, render),
		Users:      apirest.NewUserHandler(userStore, render),
		SafeCoords: apirest.NewSafeCoordsHandler(coordStore, render),
		Characters: apirest.NewCharacterHandler(editor, render),
		Admin:      apirest.NewAdminHandler(db, items, iconStore, sched),
	}, features, mw.RequireLogin(cfg.Security, c))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
