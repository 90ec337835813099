package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgblob"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgkv"
	"github.com/shandysiswandi/goeda/internal/pkg/pkglog"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
)

func defaults() map[string]any {
	return map[string]any{
		"tz":                      "UTC",
		"log.level":               "info",
		"server.address.http":     ":8080",
		"server.cors.origins":     "*",
		"server.rate_limit.rps":   5,
		"server.rate_limit.burst": 10,
		"upload.max_bytes":        16 << 20,
		"storage.driver":          pkgblob.DriverLocal,
		"storage.local.dir":       "./uploads",
		"session.driver":          pkgkv.DriverMemory,
		"session.ttl":             "24h",
		"session.cookie":          "goeda_session",
		"modules.eda.enabled":     true,
	}
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("GOEDA_CONFIG"); env != "" {
		return env
	}
	return DefaultConfigPath
}

func (a *App) initConfig() {
	path := resolveConfigPath(a.configPath)

	cfg, err := pkgconfig.NewViper(path, pkgconfig.WithDefaults(defaults()))
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.InitLogging(pkglog.WithLevel(cfg.GetString("log.level")))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
}

func (a *App) initResources() {
	kv, err := pkgkv.Open(pkgkv.Options{
		Driver: a.config.GetString("session.driver"),
		Path:   a.config.GetString("session.path"),
	})
	if err != nil {
		slog.Error("failed to open session store", "driver", a.config.GetString("session.driver"), "error", err)
		os.Exit(1)
	}
	a.kv = kv

	bucket, err := pkgblob.Open(a.ctx, pkgblob.Options{
		Driver:   a.config.GetString("storage.driver"),
		LocalDir: a.config.GetString("storage.local.dir"),
		S3: pkgblob.S3Options{
			Region:    a.config.GetString("storage.s3.region"),
			Endpoint:  a.config.GetString("storage.s3.endpoint"),
			Bucket:    a.config.GetString("storage.s3.bucket"),
			AccessKey: a.config.GetString("storage.s3.access_key"),
			SecretKey: a.config.GetString("storage.s3.secret_key"),
		},
		GCSBucket:          a.config.GetString("storage.gcs.bucket"),
		GCSCredentialsFile: a.config.GetString("storage.gcs.credentials_file"),
		AzureAccountName:   a.config.GetString("storage.azure.account_name"),
		AzureAccountKey:    a.config.GetString("storage.azure.account_key"),
		AzureContainer:     a.config.GetString("storage.azure.container"),
	})
	if err != nil {
		slog.Error("failed to open upload bucket", "driver", a.config.GetString("storage.driver"), "error", err)
		os.Exit(1)
	}
	a.bucket = bucket
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("server.cors.origins"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn[httpServerCloser] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
	a.closerFn["Session Store"] = func(context.Context) error {
		return a.kv.Close()
	}
	a.closerFn["Upload Bucket"] = func(context.Context) error {
		return a.bucket.Close()
	}
}
