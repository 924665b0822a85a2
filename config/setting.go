package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency"`
	BodyLimit   int    `koanf:"body_limit"`
	AppName     string `koanf:"app_name"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleMilvus    Module = "milvus"
	ModuleIngest    Module = "ingest"
	ModuleDatabase  Module = "database"
	ModuleAzure     Module = "azure"
	ModuleParse     Module = "parse"
	ModuleVision    Module = "vision"
	ModuleS3        Module = "s3"
	ModuleCors      Module = "cors"
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleUpload    Module = "upload"
	ModuleQuery     Module = "query"
	ModuleRetriever Module = "retriever"
)

type databaseConfig struct {
	Host         string `koanf:"host" validate:"required"`
	Port         int    `koanf:"port" validate:"required"`
	User         string `koanf:"user" validate:"required"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name" validate:"required"`
	ReplicaHost  string `koanf:"replica_host"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"`
}

// azureConfig describes the Azure-hosted OpenAI deployment. When Endpoint is
// empty the key is used against the public OpenAI API instead.
type azureConfig struct {
	Key            string  `koanf:"key"`
	Endpoint       string  `koanf:"endpoint"`
	Deployment     string  `koanf:"deployment"`
	APIVersion     string  `koanf:"api_version"`
	Model          string  `koanf:"model" validate:"required"`
	EmbeddingModel string  `koanf:"embedding_model" validate:"required"`
	Temperature    float32 `koanf:"temperature"`
	MaxTokens      int     `koanf:"max_tokens"`
}

// parseConfig points at the cloud document-parsing service. Without a key the
// ingestion path falls back to local text extraction.
type parseConfig struct {
	BaseURL      string `koanf:"base_url"`
	Key          string `koanf:"key"`
	OutputDir    string `koanf:"output_dir"`
	PollInterval int    `koanf:"poll_interval_ms"`
}

type corsConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
	AllowMethods []string `koanf:"allow_methods"`
	AllowHeaders []string `koanf:"allow_headers"`
}

type milvusConfig struct {
	Address         string          `koanf:"address" validate:"required"`
	Collection      string          `koanf:"collection" validate:"required"`
	IndexHNSWConfig indexHNSWConfig `koanf:"index_hnsw_config"`
}

type indexHNSWConfig struct {
	MetricType     string `koanf:"metric_type" validate:"required"`
	M              int    `koanf:"m" validate:"required"`
	EfConstruction int    `koanf:"ef_construction" validate:"required"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
}

type ingestConfig struct {
	ChunkTokens  int `koanf:"chunk_tokens" validate:"required"`
	ChunkOverlap int `koanf:"chunk_overlap"`
}

type config struct {
	Server   serverConfig   `koanf:"server"`
	Database databaseConfig `koanf:"database"`
	Azure    azureConfig    `koanf:"azure"`
	Parse    parseConfig    `koanf:"parse"`
	LogLevel logLevel       `koanf:"log_level"`
	Dns      string         `koanf:"dns"`
	S3       s3Config       `koanf:"s3"`
	Cors     corsConfig     `koanf:"cors"`
	Milvus   milvusConfig   `koanf:"milvus"`
	Ingest   ingestConfig   `koanf:"ingest"`
}

func buildMySQLDSN(cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

// BuildReplicaDSN returns the DSN for the read replica, or "" when none is
// configured.
func BuildReplicaDSN() string {
	if Cfg.Database.ReplicaHost == "" {
		return ""
	}
	replica := Cfg.Database
	replica.Host = replica.ReplicaHost
	return buildMySQLDSN(replica)
}

var defaultConfig = config{
	Server: serverConfig{
		Port:    8000,
		Mode:    "release",
		AppName: "docindex",
	},
	Database: databaseConfig{
		Host:     "127.0.0.1",
		Port:     3306,
		User:     "root",
		Password: "",
		Name:     "docindex",
	},
	Azure: azureConfig{
		Key:            "",
		Endpoint:       "",
		Deployment:     "",
		APIVersion:     "2024-02-15-preview",
		Model:          "gpt-4o",
		EmbeddingModel: "text-embedding-3-small",
		Temperature:    0.2,
		MaxTokens:      512,
	},
	Parse: parseConfig{
		BaseURL:      "https://api.cloud.llamaindex.ai",
		OutputDir:    "storage/images",
		PollInterval: 1000,
	},
	LogLevel: Info,
	S3: s3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		UseSSL:    false,
		Bucket:    "uploads",
	},
	Milvus: milvusConfig{
		Address:    "localhost:19530",
		Collection: "chunks",
		IndexHNSWConfig: indexHNSWConfig{
			MetricType:     "IP",
			M:              16,
			EfConstruction: 200,
		},
	},
	Ingest: ingestConfig{
		ChunkTokens:  600,
		ChunkOverlap: 80,
	},
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

// Init loads configuration once: defaults, then the YAML file (if present),
// then APP_* environment variables, then the bare AZURE_OPENAI_* variables
// the documented flows export.
func Init(path string) error {
	var initErr error
	once.Do(func() {
		k := koanf.New(".")

		validate := validator.New()
		Cfg = defaultConfig

		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !os.IsNotExist(e) {
			initErr = e
			return
		}

		// env APP_AZURE_ENDPOINT -> azure.endpoint
		if e := k.Load(env.Provider("APP_", ".", envKeyMapper), nil); e != nil {
			initErr = e
			return
		}

		if e := k.Unmarshal("", &Cfg); e != nil {
			log.Errorf("failed to unmarshal config: %v", e)
			initErr = e
			return
		}

		applyProviderEnv()

		if Cfg.Dns == "" {
			Cfg.Dns = buildMySQLDSN(Cfg.Database)
		}

		if err := validate.Struct(Cfg); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				var sb strings.Builder
				sb.WriteString(fmt.Sprintf("%v Config validation failed:\n", ModuleSetting))

				for _, e := range errs {
					sb.WriteString(
						fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()),
					)
				}

				log.Error(sb.String())
			} else {
				log.Errorf("config validation failed: %v", err)
			}
		}
	})
	return initErr
}

// envKeyMapper turns APP_AZURE_ENDPOINT into azure.endpoint: the first
// underscore separates the section, the rest stays part of the key name
// (APP_INGEST_CHUNK_TOKENS -> ingest.chunk_tokens). log_level is a
// top-level key and maps as-is.
func envKeyMapper(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "APP_"))
	if key == "log_level" {
		return key
	}
	return strings.Replace(key, "_", ".", 1)
}

// applyProviderEnv honors the conventional provider variables when the
// koanf-loaded values are empty.
func applyProviderEnv() {
	if Cfg.Azure.Key == "" {
		Cfg.Azure.Key = firstNonEmpty(os.Getenv("AZURE_OPENAI_KEY"), os.Getenv("OPENAI_API_KEY"))
	}
	if Cfg.Azure.Endpoint == "" {
		Cfg.Azure.Endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}
	if Cfg.Azure.Deployment == "" {
		Cfg.Azure.Deployment = os.Getenv("AZURE_OPENAI_DEPLOYMENT")
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		Cfg.Azure.APIVersion = v
	}
	if Cfg.Parse.Key == "" {
		Cfg.Parse.Key = os.Getenv("LLAMA_CLOUD_API_KEY")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	_ = Init("config.yaml")
}
