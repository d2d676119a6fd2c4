package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/M0narcHzZ/FitnessTracker/internal"
	"github.com/M0narcHzZ/FitnessTracker/internal/config"
	"github.com/M0narcHzZ/FitnessTracker/internal/logging"
	"github.com/M0narcHzZ/FitnessTracker/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "fitness-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	username := os.Getenv("FITNESS_TRACKER_USERNAME")
	passwordHash := os.Getenv("FITNESS_TRACKER_PASSWORD_HASH")
	if username == "" || passwordHash == "" {
		log.Fatalf("user credentials not set. use FITNESS_TRACKER_USERNAME and FITNESS_TRACKER_PASSWORD_HASH")
	}

	redisPassword := os.Getenv("FITNESS_TRACKER_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use FITNESS_TRACKER_REDIS_PASS")
	}

	postgresPassword := os.Getenv("FITNESS_TRACKER_POSTGRES_PASS")

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	dirExists, err := pkg.PathExists(cfg.PhotosRootPath, true)
	if err != nil {
		log.Fatalf("check photos root dir: %s", err)
	}
	if !dirExists {
		log.Printf("photos root dir [%s] missing, will be created", cfg.PhotosRootPath)
	} else {
		log.Printf("photos root dir: %s", cfg.PhotosRootPath)
	}

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			Username:                username,
			PasswordHash:            passwordHash,
			RedisPassword:           redisPassword,
			PostgresPassword:        postgresPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
