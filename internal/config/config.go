package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Engagement    EngagementConfig    `mapstructure:"engagement"`
	Audit         AuditConfig         `mapstructure:"audit"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
	NodeID  int64  `mapstructure:"node_id"` // snowflake 节点号
	// TrustedProxies 允许设置 X-Forwarded-For 的反向代理，为空时以连接地址为客户端 IP
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	TxIsolation     string `mapstructure:"tx_isolation"`      // read_committed / repeatable_read / serializable
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	// 限流计数是热路径，超时要短，超时后限流放行
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	OpTimeout   time.Duration `mapstructure:"op_timeout"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig MinIO配置（媒体托管）
type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	MediaBucket string `mapstructure:"media_bucket"`
	PublicBase  string `mapstructure:"public_base"` // 为空时使用 endpoint 拼接
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
}

// Topic 获取 topic 名称，未配置时返回 key 本身
func (k *KafkaConfig) Topic(key string) string {
	if t, ok := k.Topics[key]; ok && t != "" {
		return t
	}
	return key
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// ExpireDuration 返回过期时间
func (j *JWTConfig) ExpireDuration() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// EngagementConfig 播放量去重与重试配置
type EngagementConfig struct {
	ViewWindow      time.Duration `mapstructure:"view_window"`
	ViewMaxAttempts int           `mapstructure:"view_max_attempts"`
}

// AuditConfig 操作日志配置
type AuditConfig struct {
	Sink       string `mapstructure:"sink"` // kafka / database
	BufferSize int    `mapstructure:"buffer_size"`
}

// RateLimitRule 单个动作的限流规则
type RateLimitRule struct {
	Window  time.Duration `mapstructure:"window"`
	Normal  int           `mapstructure:"normal"`
	Premium int           `mapstructure:"premium"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool                     `mapstructure:"enabled"`
	Actions map[string]RateLimitRule `mapstructure:"actions"`
}

var globalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vidstream-go")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.node_id", 1)
	v.SetDefault("database.tx_isolation", "serializable")
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.op_timeout", 200*time.Millisecond)
	v.SetDefault("engagement.view_window", 10*time.Minute)
	v.SetDefault("engagement.view_max_attempts", 3)
	v.SetDefault("audit.sink", "database")
	v.SetDefault("audit.buffer_size", 1024)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Load 读取 yaml 配置，环境变量优先（DATABASE_HOST 覆盖 database.host）
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

// Validate 校验配置中不能为零的字段
func (c *Config) Validate() error {
	if c.Engagement.ViewWindow <= 0 {
		return fmt.Errorf("engagement.view_window must be positive, got %s", c.Engagement.ViewWindow)
	}
	if c.Engagement.ViewMaxAttempts < 1 {
		return fmt.Errorf("engagement.view_max_attempts must be >= 1, got %d", c.Engagement.ViewMaxAttempts)
	}
	switch c.Audit.Sink {
	case "kafka", "database":
	default:
		return fmt.Errorf("audit.sink must be kafka or database, got %q", c.Audit.Sink)
	}
	for name, rule := range c.RateLimit.Actions {
		if rule.Window <= 0 || rule.Normal <= 0 || rule.Premium <= 0 {
			return fmt.Errorf("rate_limit.actions.%s: window and limits must be positive", name)
		}
	}
	return nil
}

// Get 返回已加载的配置，未加载时 panic
func Get() *Config {
	if globalConfig == nil {
		panic("config: Load or Set must be called first")
	}
	return globalConfig
}

// GetJWT 获取JWT配置
func GetJWT() *JWTConfig {
	return &Get().JWT
}

// Set 直接设置全局配置，供测试和嵌入方使用
func Set(cfg *Config) {
	globalConfig = cfg
}
