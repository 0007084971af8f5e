package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"resume-ranker-go/internal/api/handler"
	"resume-ranker-go/internal/api/router"
	"resume-ranker-go/internal/bootstrap"
	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/constants"
	appCoreLogger "resume-ranker-go/internal/logger"
	"resume-ranker-go/internal/storage"
	"resume-ranker-go/internal/tracing"
)

var (
	version     = "1.0.0"            //nolint:gochecknoglobals
	serviceName = "resume-ranker-go" //nolint:gochecknoglobals
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，为空时按默认路径查找")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置校验失败: %v", err)
	}

	logCloser, err := initLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logCloser.Close()
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	}, serviceName, version)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	zl := appCoreLogger.Logger.With().Str("component", "processor").Logger()
	svc, err := bootstrap.NewService(ctx, cfg, storageManager, &zl)
	if err != nil {
		glog.Fatalf("初始化业务服务失败: %v", err)
	}
	glog.Infof("业务服务初始化成功，向量化服务: %s，PDF后端: %s", cfg.Embedding.Provider, cfg.Parser.PDFBackend)
	if cfg.Embedding.Lexical() {
		glog.Warn("当前使用本地哈希向量，语义分只反映词面重合；生产排序请把 embedding.provider 设为 aliyun 或 gemini")
	}

	var consumers []chan<- struct{}
	if storageManager.RabbitMQ != nil {
		mq := storageManager.RabbitMQ
		parseStop, err := mq.StartConsumer(cfg.RabbitMQ.ParseQueue, cfg.RabbitMQ.PrefetchCount,
			cfg.RabbitMQ.ConsumerWorkers[constants.ConsumerParse], svc.HandleResumeUploaded)
		if err != nil {
			glog.Fatalf("启动解析消费者失败: %v", err)
		}
		// 排序是整岗位的批处理，预取一条即可
		rankStop, err := mq.StartConsumer(cfg.RabbitMQ.RankQueue, 1,
			cfg.RabbitMQ.ConsumerWorkers[constants.ConsumerRank], svc.HandleRankRequested)
		if err != nil {
			glog.Fatalf("启动排序消费者失败: %v", err)
		}
		consumers = append(consumers, parseStop, rankStop)
		glog.Info("所有消费者已启动")
	} else {
		glog.Warn("RabbitMQ 不可用，简历将在上传请求内同步解析")
	}

	var checks []handler.Option
	checks = append(checks, handler.WithHealthCheck("mysql", func(ctx context.Context) error {
		sqlDB, err := storageManager.MySQL.DB().DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}))
	if storageManager.Redis != nil {
		checks = append(checks, handler.WithHealthCheck("redis", storageManager.Redis.Ping))
	}

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Parser.MaxFileSize())+(1<<20)),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		glog.CtxInfof(c, "%s %s -> %d (%s)", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start).Round(time.Millisecond))
	})

	router.RegisterRoutes(h, handler.New(svc, checks...), cfg.Server.APIKeys)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	for _, stop := range consumers {
		close(stop)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Errorf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化全局 zerolog，并让 hertz 的 hlog 写到同一个 logger
func initLogger(cfg config.LoggerConfig) (interface{ Close() error }, error) {
	closer, err := appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		TimeFormat:   cfg.TimeFormat,
		ReportCaller: cfg.ReportCaller,
		File:         cfg.File,
	})
	if err != nil {
		return nil, err
	}

	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	if cfg.Level == "debug" {
		glog.SetLevel(glog.LevelDebug)
	} else {
		glog.SetLevel(glog.LevelInfo)
	}
	return closer, nil
}
