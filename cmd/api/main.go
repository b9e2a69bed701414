package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/api/router"
	interactiondb "VidTube.com/cmd/interaction/dal/db"
	relationdb "VidTube.com/cmd/relation/dal/db"
	userdb "VidTube.com/cmd/user/dal/db"
	videodb "VidTube.com/cmd/video/dal/db"
	videoservice "VidTube.com/cmd/video/service"
	"VidTube.com/config"
	"VidTube.com/config/pprof"
	"VidTube.com/pkg/cache"
	"VidTube.com/pkg/database"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/jwt"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/middleware"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/utils"
)

var closers []func() error

func Init() {
	config.Init()

	if err := utils.InitSnowflake(config.ConfigInfo.Snowflake.WorkerID, config.ConfigInfo.Snowflake.DatacenterID); err != nil {
		hlog.Fatalf("Failed to init snowflake: %v", err)
	}

	db, err := database.Open(utils.GetMysqlDsn(), database.DefaultPool)
	if err != nil {
		hlog.Fatalf("Failed to connect database: %v", err)
	}
	userdb.Init(db)
	videodb.Init(db)
	interactiondb.Init(db)
	relationdb.Init(db)

	store, err := oss.InitMinio()
	if err != nil {
		hlog.Fatalf("Failed to init minio: %v", err)
	}

	// redis 与 rabbitmq 不可用时降级: 统计不缓存, 事件不投递
	var stats videoservice.StatsCache
	if client, err := cache.NewRedisClient(context.Background()); err != nil {
		hlog.Warnf("Redis unavailable, dashboard stats will not be cached: %v", err)
	} else {
		stats = cache.NewStatsCacheManager(client)
		closers = append(closers, client.Close)
	}
	videoservice.Init(store, stats)
	initEvents()

	if err := middleware.InitSentinel("", config.ConfigInfo.Sentinel.WriteQPS); err != nil {
		hlog.Fatalf("Failed to init sentinel: %v", err)
	}

	timeout, err := time.ParseDuration(config.ConfigInfo.Jwt.Timeout)
	if err != nil {
		hlog.Fatalf("Invalid jwt timeout %q: %v", config.ConfigInfo.Jwt.Timeout, err)
	}
	if err := jwt.Init(config.ConfigInfo.Jwt.Secret, timeout, pack.SendFailure); err != nil {
		hlog.Fatalf("Failed to init jwt: %v", err)
	}
}

func initEvents() {
	c := config.ConfigInfo.RabbitMq
	url := mq.URL(c.Addr, c.Username, c.Password)

	producer, err := mq.NewProducer(url)
	if err != nil {
		hlog.Warnf("RabbitMQ unavailable, events will be dropped: %v", err)
		return
	}
	mq.SetPublisher(producer)
	closers = append(closers, producer.Close)

	consumer, err := mq.NewConsumer(url)
	if err != nil {
		hlog.Warnf("Failed to start event consumer: %v", err)
		return
	}
	closers = append(closers, consumer.Close)
	ctx := context.Background()
	if err := consumer.ConsumeRelationEvents(ctx, videoservice.StatsInvalidator{}); err != nil {
		hlog.Errorf("Failed to consume relation events: %v", err)
	}
	if err := consumer.ConsumeContentEvents(ctx, videoservice.StatsInvalidator{}); err != nil {
		hlog.Errorf("Failed to consume content events: %v", err)
	}
}

func main() {
	Init()
	pprof.Load(config.ConfigInfo.Server.PprofAddr)
	h := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(config.ConfigInfo.Server.MaxBodySize),
	)

	// 配置 CORS
	h.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigInfo.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 错误处理
	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			pack.SendFailure(ctx, c, errno.ServiceErr.WithMessage(fmt.Sprintf("%v", err)))
		})))
	h.Use(metrics.Middleware())

	router.Register(h.Engine)

	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				hlog.CtxWarnf(ctx, "close: %v", err)
			}
		}
	})
	h.Spin()
}
