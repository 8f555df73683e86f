package configs

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"` // debug/release
	} `mapstructure:"server"`

	Database struct {
		Driver   string `mapstructure:"driver"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		DBName   string `mapstructure:"dbname"`
	} `mapstructure:"database"`

	JWT struct {
		Secret    string `mapstructure:"secret"`
		ExpiresIn int    `mapstructure:"expires_in"` // 过期时间（小时）
	} `mapstructure:"jwt"`

	// 推荐理由润色服务（可选）
	Advisory struct {
		APIKey         string `mapstructure:"api_key"`
		Model          string `mapstructure:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"advisory"`

	Recommend struct {
		Limit        int `mapstructure:"limit"`          // 每轮推荐条数
		CacheTTLMins int `mapstructure:"cache_ttl_mins"` // 推荐集缓存TTL（分钟）
		CacheSize    int `mapstructure:"cache_size"`     // 缓存最大用户数
	} `mapstructure:"recommend"`

	// 定时推荐刷新（可选）
	Refresh struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes"`
	} `mapstructure:"refresh"`
}

// Load 加载配置
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
