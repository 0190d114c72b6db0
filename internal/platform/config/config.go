package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 选择持久化引擎，可选 "sqlite" 或 "postgres"
	Driver   string         `mapstructure:"driver"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的配置
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// PoolSize 是连接池大小，0表示使用客户端默认值
	PoolSize int `mapstructure:"poolSize"`
	// DialTimeoutSeconds 是建立连接的超时（秒），0表示使用客户端默认值
	DialTimeoutSeconds int `mapstructure:"dialTimeoutSeconds"`
}

// AuthConfig 定义了JWT认证相关的配置
type AuthConfig struct {
	// JWTSecret 是签发和校验JWT的对称密钥
	JWTSecret string `mapstructure:"jwtSecret"`
	// TokenTTLHours 是签发Token的有效期（小时）
	TokenTTLHours int `mapstructure:"tokenTTLHours"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config") // 文件名 (不带扩展名)
	v.SetConfigType("yaml")   // 文件类型

	// 2. 添加配置文件搜索路径
	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 AUTH_JWTSECRET=...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 设置缺省值
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "pitches.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("auth.tokenTTLHours", 24)

	// 5. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
