// Package config 提供 YAML 配置加载与 ArtifactStore 工厂。
// 环境变量覆盖文件配置，便于容器部署时不改文件只改环境。
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/price"
	"github.com/rushteam/commercekit/store"
)

// 支持的存储后端
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// RedisConfig 是 Redis 后端配置。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// StoreConfig 是产物存储配置。
type StoreConfig struct {
	Backend string      `yaml:"backend"` // file / memory / redis
	Redis   RedisConfig `yaml:"redis"`
}

// RecommendConfig 是推荐引擎配置。
type RecommendConfig struct {
	DefaultLimit int `yaml:"default_limit"`
}

// PriceConfig 是定价引擎配置。
type PriceConfig struct {
	CustomRules []price.CustomRule `yaml:"custom_rules"`
}

// Config 是顶层配置。
type Config struct {
	ModelDir  string          `yaml:"model_dir"` // file 后端的产物目录
	Store     StoreConfig     `yaml:"store"`
	Recommend RecommendConfig `yaml:"recommend"`
	Price     PriceConfig     `yaml:"price"`
}

// Default 返回默认配置：file 后端 + ./models 目录。
func Default() *Config {
	return &Config{
		ModelDir: "./models",
		Store: StoreConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Recommend: RecommendConfig{DefaultLimit: 10},
	}
}

// Load 从 YAML 文件加载配置，再应用环境变量覆盖。
// path 为空时只用默认值 + 环境变量。
//
// 支持的环境变量：
//   - COMMERCEKIT_MODEL_DIR
//   - COMMERCEKIT_STORE_BACKEND
//   - COMMERCEKIT_REDIS_ADDR
//   - COMMERCEKIT_REDIS_DB
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Recommend.DefaultLimit <= 0 {
		cfg.Recommend.DefaultLimit = 10
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMMERCEKIT_MODEL_DIR"); v != "" {
		cfg.ModelDir = v
	}
	if v := os.Getenv("COMMERCEKIT_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("COMMERCEKIT_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("COMMERCEKIT_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Store.Redis.DB = db
		}
	}
}

// BuildStore 根据配置构造 ArtifactStore。
func (c *Config) BuildStore() (core.ArtifactStore, error) {
	switch c.Store.Backend {
	case BackendFile, "":
		return store.NewFileStore(c.ModelDir)
	case BackendMemory:
		return store.NewMemoryStore(), nil
	case BackendRedis:
		return store.NewRedisStore(c.Store.Redis.Addr, c.Store.Redis.DB)
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported, fmt.Sprintf("store: unknown backend %q", c.Store.Backend))
	}
}
