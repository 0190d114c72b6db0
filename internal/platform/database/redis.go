package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，供项目其他部分使用
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 按配置初始化Redis连接并验证可达性。
// 连接池参数同样来自配置，零值交给客户端的默认值处理。
func InitRedis(cfg config.RedisConfig) {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	RDB = redis.NewClient(opts)

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		// 缓存是严格派生的，但启动时连不上说明配置有误，直接失败
		panic("无法连接到Redis: " + err.Error())
	}

	fmt.Println("Redis 连接成功！")
}
