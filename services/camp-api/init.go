package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/apihelpers"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend/hosted"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend/mongodb"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend/postgres"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
	smtpclient "github.com/january-msemakweli/MoAfyaCamps/pkg/smtp-client"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/utils"
)

// Environment variables
const (
	ENV_GIN_DEBUG_MODE       = "GIN_DEBUG_MODE"
	ENV_CAMP_API_LISTEN_PORT = "CAMP_API_LISTEN_PORT"
	ENV_CORS_ALLOW_ORIGINS   = "CORS_ALLOW_ORIGINS"

	ENV_SESSION_TOKEN_SIGN_KEY   = "SESSION_TOKEN_SIGN_KEY"
	ENV_SESSION_TOKEN_EXPIRES_IN = "SESSION_TOKEN_EXPIRES_IN"

	// which driver serves each backend capability: "hosted" (default),
	// "mongodb", and for tables additionally "postgres"
	ENV_IDENTITY_DRIVER = "IDENTITY_DRIVER"
	ENV_TABLES_DRIVER   = "TABLES_DRIVER"

	ENV_HOSTED_BACKEND_URL         = "HOSTED_BACKEND_URL"
	ENV_HOSTED_BACKEND_SERVICE_KEY = "HOSTED_BACKEND_SERVICE_KEY"
	ENV_HOSTED_BACKEND_TIMEOUT     = "HOSTED_BACKEND_TIMEOUT"

	ENV_MONGODB_URI               = "MONGODB_URI"
	ENV_MONGODB_DB_NAME           = "MONGODB_DB_NAME"
	ENV_MONGODB_TIMEOUT           = "MONGODB_TIMEOUT"
	ENV_MONGODB_IDLE_CONN_TIMEOUT = "MONGODB_IDLE_CONN_TIMEOUT"
	ENV_MONGODB_MAX_POOL_SIZE     = "MONGODB_MAX_POOL_SIZE"

	ENV_POSTGRES_DSN = "POSTGRES_DSN"

	ENV_BOOTSTRAP_ADMIN_EMAIL    = "BOOTSTRAP_ADMIN_EMAIL"
	ENV_BOOTSTRAP_ADMIN_PASSWORD = "BOOTSTRAP_ADMIN_PASSWORD"

	ENV_LOGIN_URL               = "LOGIN_URL"
	ENV_SMTP_SERVER_CONFIG_PATH = "SMTP_SERVER_CONFIG_PATH"

	ENV_REQUIRE_MUTUAL_TLS     = "REQUIRE_MUTUAL_TLS"
	ENV_MUTUAL_TLS_SERVER_CERT = "MUTUAL_TLS_SERVER_CERT"
	ENV_MUTUAL_TLS_SERVER_KEY  = "MUTUAL_TLS_SERVER_KEY"
	ENV_MUTUAL_TLS_CA_CERT     = "MUTUAL_TLS_CA_CERT"

	ENV_LOG_TO_FILE     = "LOG_TO_FILE"
	ENV_LOG_FILENAME    = "LOG_FILENAME"
	ENV_LOG_MAX_SIZE    = "LOG_MAX_SIZE"
	ENV_LOG_MAX_AGE     = "LOG_MAX_AGE"
	ENV_LOG_MAX_BACKUPS = "LOG_MAX_BACKUPS"
	ENV_LOG_LEVEL       = "LOG_LEVEL"
	ENV_LOG_INCLUDE_SRC = "LOG_INCLUDE_SRC"
)

const (
	defaultBootstrapAdminEmail    = "admin@moafyacamps.com"
	defaultBootstrapAdminPassword = "Admin@123"
)

type Config struct {
	// Gin configs
	GinDebugMode bool
	AllowOrigins []string
	Port         string

	// Session token configs
	SessionTokenSignKey   string
	SessionTokenExpiresIn time.Duration

	// Bootstrap admin account, auto provisioned on first login
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	LoginURL string

	// Mutual TLS configs
	UseMTLS          bool
	CertificatePaths apihelpers.CertificatePaths
}

var (
	conf           Config
	identityClient backend.Identity
	tableClient    backend.Tables
	emailClients   *smtpclient.SmtpClients
)

func init() {
	utils.ReadLoggerConfigFromEnvAndInitLogger(
		ENV_LOG_LEVEL,
		ENV_LOG_INCLUDE_SRC,
		ENV_LOG_TO_FILE,
		ENV_LOG_FILENAME,
		ENV_LOG_MAX_SIZE,
		ENV_LOG_MAX_AGE,
		ENV_LOG_MAX_BACKUPS,
	)

	conf = initConfig()
	if !conf.GinDebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	initBackendClients()
	initEmailClients()
}

func initConfig() Config {
	signKey := os.Getenv(ENV_SESSION_TOKEN_SIGN_KEY)
	if signKey == "" {
		slog.Error("session token sign key not set", slog.String("env", ENV_SESSION_TOKEN_SIGN_KEY))
		panic("session token sign key not set")
	}

	expiresIn, err := utils.ParseDurationString(utils.GetEnvOrDefault(ENV_SESSION_TOKEN_EXPIRES_IN, "12h"))
	if err != nil {
		slog.Error("could not parse session token expiration", slog.String("error", err.Error()))
		panic(err)
	}

	return Config{
		GinDebugMode:           os.Getenv(ENV_GIN_DEBUG_MODE) == "true",
		AllowOrigins:           strings.Split(utils.GetEnvOrDefault(ENV_CORS_ALLOW_ORIGINS, "*"), ","),
		Port:                   utils.GetEnvOrDefault(ENV_CAMP_API_LISTEN_PORT, "10000"),
		SessionTokenSignKey:    signKey,
		SessionTokenExpiresIn:  expiresIn,
		BootstrapAdminEmail:    utils.GetEnvOrDefault(ENV_BOOTSTRAP_ADMIN_EMAIL, defaultBootstrapAdminEmail),
		BootstrapAdminPassword: utils.GetEnvOrDefault(ENV_BOOTSTRAP_ADMIN_PASSWORD, defaultBootstrapAdminPassword),
		LoginURL:               utils.GetEnvOrDefault(ENV_LOGIN_URL, "/login"),
		UseMTLS:                os.Getenv(ENV_REQUIRE_MUTUAL_TLS) == "true",
		CertificatePaths: apihelpers.CertificatePaths{
			ServerCertPath: os.Getenv(ENV_MUTUAL_TLS_SERVER_CERT),
			ServerKeyPath:  os.Getenv(ENV_MUTUAL_TLS_SERVER_KEY),
			CACertPath:     os.Getenv(ENV_MUTUAL_TLS_CA_CERT),
		},
	}
}

func initBackendClients() {
	identityDriver := utils.GetEnvOrDefault(ENV_IDENTITY_DRIVER, "hosted")
	tablesDriver := utils.GetEnvOrDefault(ENV_TABLES_DRIVER, "hosted")

	var mongoService *mongodb.Service
	needMongo := identityDriver == "mongodb" || tablesDriver == "mongodb"
	if needMongo {
		var err error
		mongoService, err = mongodb.NewService(mongodb.Config{
			URI:             requiredEnv(ENV_MONGODB_URI),
			DBName:          utils.GetEnvOrDefault(ENV_MONGODB_DB_NAME, "moafyacamps"),
			Timeout:         utils.GetEnvInt(ENV_MONGODB_TIMEOUT, 30),
			IdleConnTimeout: utils.GetEnvInt(ENV_MONGODB_IDLE_CONN_TIMEOUT, 45),
			MaxPoolSize:     uint64(utils.GetEnvInt(ENV_MONGODB_MAX_POOL_SIZE, 8)),
		})
		if err != nil {
			slog.Error("error connecting to MongoDB backend", slog.String("error", err.Error()))
			panic(err)
		}
	}

	var hostedConfig hosted.ClientConfig
	needHosted := identityDriver == "hosted" || tablesDriver == "hosted"
	if needHosted {
		hostedConfig = hosted.ClientConfig{
			RootURL:    requiredEnv(ENV_HOSTED_BACKEND_URL),
			ServiceKey: requiredEnv(ENV_HOSTED_BACKEND_SERVICE_KEY),
			Timeout:    time.Duration(utils.GetEnvInt(ENV_HOSTED_BACKEND_TIMEOUT, 30)) * time.Second,
		}
	}

	switch identityDriver {
	case "hosted":
		identityClient = hosted.NewIdentityClient(hostedConfig)
	case "mongodb":
		identityClient = mongoService
	default:
		slog.Error("unknown identity driver", slog.String("driver", identityDriver))
		panic("unknown identity driver")
	}

	switch tablesDriver {
	case "hosted":
		tableClient = hosted.NewTableClient(hostedConfig)
	case "mongodb":
		tableClient = mongoService
	case "postgres":
		store, err := postgres.Open(requiredEnv(ENV_POSTGRES_DSN), []string{
			camp.TableProfiles,
			camp.TableProjects,
			camp.TableForms,
			camp.TableSubmissions,
		})
		if err != nil {
			slog.Error("error connecting to Postgres backend", slog.String("error", err.Error()))
			panic(err)
		}
		tableClient = store
	default:
		slog.Error("unknown tables driver", slog.String("driver", tablesDriver))
		panic("unknown tables driver")
	}
}

func initEmailClients() {
	configPath := os.Getenv(ENV_SMTP_SERVER_CONFIG_PATH)
	if configPath == "" {
		slog.Info("no SMTP server config, welcome emails disabled")
		return
	}

	serverList, err := smtpclient.LoadSmtpServerListFromFile(configPath)
	if err != nil {
		slog.Error("could not load SMTP server config", slog.String("error", err.Error()))
		panic(err)
	}
	emailClients, err = smtpclient.NewSmtpClients(serverList)
	if err != nil {
		slog.Error("could not init SMTP clients", slog.String("error", err.Error()))
		panic(err)
	}
}

func requiredEnv(name string) string {
	value := os.Getenv(name)
	if value == "" {
		slog.Error("required environment variable not set", slog.String("env", name))
		panic("required environment variable not set: " + name)
	}
	return value
}
