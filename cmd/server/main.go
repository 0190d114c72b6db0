package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/startup-pitch-backend/api"
	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/config"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/health"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/shutdown"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/startup"
	"github.com/SlpAus/startup-pitch-backend/pkg/lifecycle"
	"github.com/SlpAus/startup-pitch-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env不存在时静默跳过，环境变量仍然生效
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	token.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 创建两阶段停机的生命周期管理器，并启动后台服务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	healthHandle, err := gracefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	health.StartRedisHealthCheck(healthHandle)

	reconcilerHandle, err := gracefulMgr.NewServiceHandle("pitch-cache-reconciler")
	if err != nil {
		panic(err)
	}
	pitch.StartCacheReconciler(reconcilerHandle)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
