package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/goeda/internal/pkg/pkgblob"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgkv"
	"github.com/shandysiswandi/goeda/internal/pkg/pkglog"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
)

// DefaultConfigPath is read when neither --config nor GOEDA_CONFIG is set.
const DefaultConfigPath = "./config/config.yaml"

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	configPath string
	config     pkgconfig.Config

	// libraries
	uuid      *pkguid.UUID
	goroutine *pkgroutine.Manager

	// resources
	kv     pkgkv.Store
	bucket pkgblob.Bucket

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

// New wires the application from the config file at configPath. An empty
// path falls back to GOEDA_CONFIG and then DefaultConfigPath.
func New(configPath string) *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:        ctx,
		cancel:     cancel,
		configPath: configPath,
	}

	app.initConfig()
	app.initLibraries()
	app.initResources()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
