package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Sync     SyncConfig     `mapstructure:"sync"`     // 同步调度配置
	TBA      TBAConfig      `mapstructure:"tba"`      // 上游TBA数据源配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// SyncConfig 同步调度配置
type SyncConfig struct {
	StartYear        int `mapstructure:"start_year"`         // 全量同步起始赛季（FRC最早为1992）
	MaxPlannerRounds int `mapstructure:"max_planner_rounds"` // 父子赛事拓扑排序最大迭代轮数
	StaleAfterHours  int `mapstructure:"stale_after_hours"`  // 赛事结束多少小时后仍有未打比赛视为陈旧
}

// TBAConfig 上游The Blue Alliance API配置
type TBAConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址（https://www.thebluealliance.com/api/v3）
	AuthKey    string `mapstructure:"auth_key"`    // X-TBA-Auth-Key认证密钥
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	RetryCount int    `mapstructure:"retry_count"` // 重试次数
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("TBA_AUTH_KEY"); v != "" {
		cfg.TBA.AuthKey = v
	}
	if v := os.Getenv("TBA_PROXY"); v != "" {
		cfg.TBA.Proxy = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
}

// applyDefaults 未配置项兜底默认值
func applyDefaults(cfg *Config) {
	if cfg.Sync.StartYear == 0 {
		cfg.Sync.StartYear = 1992
	}
	if cfg.Sync.MaxPlannerRounds == 0 {
		cfg.Sync.MaxPlannerRounds = 10
	}
	if cfg.Sync.StaleAfterHours == 0 {
		cfg.Sync.StaleAfterHours = 24
	}
	if cfg.TBA.BaseURL == "" {
		cfg.TBA.BaseURL = "https://www.thebluealliance.com/api/v3"
	}
	if cfg.TBA.Timeout == 0 {
		cfg.TBA.Timeout = 30
	}
}
