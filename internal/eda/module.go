package eda

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goeda/internal/eda/inbound"
	"github.com/shandysiswandi/goeda/internal/eda/session"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/shandysiswandi/goeda/internal/eda/usecase"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgblob"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgkv"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	KV        pkgkv.Store
	Bucket    pkgblob.Bucket
	UUID      pkguid.StringValidator
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.KV == nil || dep.Bucket == nil {
		return nil, errors.New("eda: session store and upload bucket are required")
	}

	if dep.UUID == nil {
		dep.UUID = pkguid.NewUUID()
	}

	snowflake, err := pkguid.NewSnowflake()
	if err != nil {
		return nil, err
	}

	ttl := dep.Config.GetDuration("session.ttl")
	maxBytes := dep.Config.GetInt("upload.max_bytes")

	var runner usecase.Runner
	if dep.Goroutine != nil {
		runner = dep.Goroutine
	}

	uc := usecase.New(usecase.Dependency{
		Tables:   tabular.NewStore(dep.Bucket, nil, snowflake),
		Sessions: session.NewRepository(dep.KV, ttl),
		Runner:   runner,
		MaxBytes: maxBytes,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Config{
		Session: session.Config{
			Cookie: dep.Config.GetString("session.cookie"),
			Secure: dep.Config.GetBool("session.secure"),
			MaxAge: ttl,
		},
		RateLimit: pkgrouter.RateLimitConfig{
			RequestsPerSecond: dep.Config.GetFloat("server.rate_limit.rps"),
			Burst:             int(dep.Config.GetInt("server.rate_limit.burst")),
		},
		MaxUploadBytes: maxBytes,
	}, dep.UUID)

	return nil, nil
}
