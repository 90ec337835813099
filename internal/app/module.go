package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/goeda/internal/eda"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.eda.enabled") {
		closer, err := eda.New(eda.Dependency{
			Config:    a.config,
			Goroutine: a.goroutine,
			Router:    a.router,
			Context:   a.ctx,
			KV:        a.kv,
			Bucket:    a.bucket,
			UUID:      a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module eda", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["EDA"] = closer
		}
	}
}
