package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"runcrew"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"runcrew"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"runcrew"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// 挑战规则配置
	DailyGoalKm         float64 `env:"DAILY_GOAL_KM" envDefault:"3.0"`           // 每日达标距离
	MinUploadKm         float64 `env:"MIN_UPLOAD_KM" envDefault:"1.0"`           // 单次上传最低距离
	MaxPaceMinPerKm     float64 `env:"MAX_PACE_MIN_PER_KM" envDefault:"20.0"`    // 配速上限，超过视为步行
	PenaltyPerMissedDay int64   `env:"PENALTY_PER_MISSED_DAY" envDefault:"20000"` // 每漏一天的罚金（韩元）
	ChallengeTimezone   string  `env:"CHALLENGE_TIMEZONE" envDefault:"Asia/Seoul"`
	PenaltyNoticeTime   string  `env:"PENALTY_NOTICE_TIME" envDefault:"09:00"` // 漏卡次日发送罚金短信的本地时间

	// 图像识别配置
	// 注意：API Key 只从环境变量读取，不要写进代码仓库
	VisionProvider       string `env:"VISION_PROVIDER" envDefault:"gemini"` // gemini, mock
	GeminiAPIKey         string `env:"GEMINI_API_KEY"`
	GeminiModel          string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiTimeoutSeconds int    `env:"GEMINI_TIMEOUT_SECONDS" envDefault:"30"`

	// 图片存储配置
	BlobDir     string `env:"BLOB_DIR" envDefault:"./data/uploads"`
	BlobBaseURL string `env:"BLOB_BASE_URL" envDefault:"/static"`

	// 短信服务配置
	// 注意：AccessKey 和 SecretKey 通过阿里云 SDK 的环境变量自动获取
	// 需要设置环境变量：ALIBABA_CLOUD_ACCESS_KEY_ID 和 ALIBABA_CLOUD_ACCESS_KEY_SECRET
	SMSProvider     string `env:"SMS_PROVIDER" envDefault:"mock"` // aliyun, mock
	SMSSignName     string `env:"SMS_SIGN_NAME"`                  // 短信签名名称
	SMSTemplateCode string `env:"SMS_TEMPLATE_CODE"`              // 罚金通知模板代码

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	TracingSampler float64 `env:"TRACING_SAMPLER" envDefault:"0.1"`

	// 看板缓存配置
	DashboardCacheTTLSeconds int `env:"DASHBOARD_CACHE_TTL_SECONDS" envDefault:"30"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.VisionProvider == "gemini" && Cfg.GeminiAPIKey == "" {
		log.Printf("WARN: GEMINI_API_KEY is not set, image analysis will not work")
	}

	if Cfg.SMSProvider == "aliyun" {
		if Cfg.SMSSignName == "" {
			log.Printf("WARN: SMS_SIGN_NAME is not set, SMS service may not work properly")
		}
		if Cfg.SMSTemplateCode == "" {
			log.Printf("WARN: SMS_TEMPLATE_CODE is not set, SMS service may not work properly")
		}
	}

	if Cfg.DailyGoalKm <= 0 {
		log.Fatal("DAILY_GOAL_KM must be positive")
	}
	if Cfg.MinUploadKm <= 0 {
		log.Fatal("MIN_UPLOAD_KM must be positive")
	}
	if Cfg.MaxPaceMinPerKm <= 0 {
		log.Fatal("MAX_PACE_MIN_PER_KM must be positive")
	}
	if Cfg.PenaltyPerMissedDay < 0 {
		log.Fatal("PENALTY_PER_MISSED_DAY must not be negative")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
