package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"commercia-client/internal/assistant"
	"commercia-client/internal/config"
	"commercia-client/internal/conversation"
	"commercia-client/internal/handler"
	"commercia-client/internal/metrics"
	"commercia-client/internal/service"
	"commercia-client/internal/tui"
	"commercia-client/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath, mode string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.StringVar(&mode, "mode", "tui", "运行模式: tui | web")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 终端界面占用标准输出，日志必须写文件
	logFile := cfg.Log.File
	if mode == "tui" && logFile == "" {
		logFile = "commercia.log"
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, logFile); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 初始化服务
	session := conversation.NewSession(cfg.Session.UserID)
	store := conversation.NewStore(session)
	assistantClient := assistant.NewClient(cfg.Assistant)
	collector := metrics.New()
	chatService := service.NewChatService(store, assistantClient, collector)

	logger.Infof("会话 %s 已创建, 助手服务: %s", session.ID, cfg.Assistant.ChatURL())

	switch mode {
	case "tui":
		if err := tui.Run(chatService, assistantClient); err != nil {
			logger.Fatalf("终端界面运行失败: %v", err)
		}
	case "web":
		runWeb(cfg, chatService, assistantClient, collector)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (expected tui or web)\n", mode)
		os.Exit(2)
	}
}

func runWeb(cfg *config.Config, chatService *service.ChatService, assistantClient *assistant.Client, collector *metrics.Collector) {
	gin.SetMode(gin.ReleaseMode)

	chatHandler := handler.NewChatHandler(chatService, assistantClient)
	router := handler.NewRouter(cfg, chatHandler, collector.Handler())

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	chatService.Close()
	if err := server.Close(); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}
