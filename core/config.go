package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineMongo    = "mongo"
	EngineRedis    = "redis"
)

type (
	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		WorkDir          string
		Locale           string
		HashSecrets      bool
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		Server           ServerConfig
		Storage          StorageConfig
		Database         DatabaseConfig
		Mongo            MongoConfig
		Redis            RedisConfig
		Admin            AdminConfig
	}

	ServerConfig struct {
		Host               string
		Port               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	StorageConfig struct {
		Engine string
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	MongoConfig struct {
		URI        string
		Database   string
		Collection string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	// AdminConfig describes the singleton admin identity.
	AdminConfig struct {
		ID       string
		Name     string
		Email    string
		Password string
	}
)

func (sc ServerConfig) Address() string {
	return net.JoinHostPort(sc.Host, sc.Port)
}

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Campus")
	v.SetDefault("secretKey", "w1k&3d9!kce#pq+cx)7z4=vn^b2l%t(0y_8s*hgmr$ea6ju5f")
	v.SetDefault("locale", "en")
	v.SetDefault("hashSecrets", false)
	v.SetDefault("defaultFromName", "Campus")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("storageEngine", EngineMemory)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseName", "campus")
	v.SetDefault("databaseUser", "campus")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("mongoUri", "mongodb://localhost:27017")
	v.SetDefault("mongoDatabase", "campus")
	v.SetDefault("mongoCollection", "records")

	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDb", 0)
	v.SetDefault("redisPrefix", "campus:")

	v.SetDefault("adminId", "admin1")
	v.SetDefault("adminName", "Admin")
	v.SetDefault("adminEmail", "admin@mkce.com")
	v.SetDefault("adminPassword", "admin.mkce")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:         env,
		Build:       v.GetString("build"),
		Debug:       v.GetBool("debug"),
		TestMode:    v.GetBool("testMode"),
		AppName:     v.GetString("appName"),
		SecretKey:   v.GetString("secretKey"),
		WorkDir:     workDir,
		Locale:      v.GetString("locale"),
		HashSecrets: v.GetBool("hashSecrets"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("defaultFromName"),
			Address: v.GetString("defaultFromEmail"),
		},
		SendgridApiKey: v.GetString("sendgridApiKey"),
		RollbarToken:   v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Port:               v.GetString("serverPort"),
			DebugHost:          v.GetString("serverDebugHost"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Storage: StorageConfig{
			Engine: strings.ToLower(v.GetString("storageEngine")),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("mongoUri"),
			Database:   v.GetString("mongoDatabase"),
			Collection: v.GetString("mongoCollection"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redisAddr"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDb"),
			Prefix:   v.GetString("redisPrefix"),
		},
		Admin: AdminConfig{
			ID:       v.GetString("adminId"),
			Name:     v.GetString("adminName"),
			Email:    v.GetString("adminEmail"),
			Password: v.GetString("adminPassword"),
		},
	}
}

// NewTestConfig returns the config used by package tests: in-memory storage, no network services.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Storage.Engine = EngineMemory
	conf.SecretKey = "test-secret"
	conf.HashSecrets = false
	return conf
}
