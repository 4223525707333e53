//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"ZevaroCore/internal/biz"
	"ZevaroCore/internal/conf"
	"ZevaroCore/internal/data"
	"ZevaroCore/internal/server"
	"ZevaroCore/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Broker, *conf.Stats, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		server.ProviderSet,
		NewStatsJob,
		newApp,
	))
}
