package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string          `yaml:"git_commit" envconfig:"BKY_GIT_COMMIT"`
	GitTag                  string          `yaml:"git_tag" envconfig:"BKY_GIT_TAG"`
	BuildTime               string          `yaml:"build_time" envconfig:"BKY_BUILD_TIME"`
	IsProduction            bool            `yaml:"is_production" envconfig:"BKY_IS_PRODUCTION"`
	LogLevel                zapcore.Level   `yaml:"log_level" envconfig:"BKY_LOG_LEVEL"`
	LogFile                 string          `yaml:"log_file" envconfig:"BKY_LOG_FILE"`
	OpsEndpointsEnable      bool            `yaml:"ops_endpoints_enable" envconfig:"BKY_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool            `yaml:"profiler_endpoints_enable" envconfig:"BKY_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig    `yaml:"server"`
	Redis                   RedisConfig     `yaml:"redis"`
	BoltDB                  BoltDBConfig    `yaml:"boltdb"`
	Catalog                 CatalogConfig   `yaml:"catalog"`
	Fragments               FragmentsConfig `yaml:"fragments"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKY_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKY_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKY_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKY_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKY_SERVER_REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKY_SERVER_SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKY_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKY_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKY_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKY_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKY_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKY_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKY_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKY_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKY_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKY_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKY_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKY_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKY_BOLTDB_BUCKET_NAME"`
}

type CatalogConfig struct {
	FilePath     string `yaml:"filepath" envconfig:"BKY_CATALOG_FILE_PATH"`
	DefaultImage string `yaml:"default_image" envconfig:"BKY_CATALOG_DEFAULT_IMAGE"`
}

type FragmentsConfig struct {
	Folder string `yaml:"folder" envconfig:"BKY_FRAGMENTS_FOLDER"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if len(config.Catalog.FilePath) == 0 {
		return errors.New("make sure to set the catalog file path in configuration file")
	}

	if len(config.Catalog.DefaultImage) == 0 {
		config.Catalog.DefaultImage = "images/book.png"
	}

	if len(config.Fragments.Folder) == 0 {
		config.Fragments.Folder = "./components"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BKY`.
	err = LoadConfigEnvs("BKY", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
