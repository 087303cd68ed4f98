//go:build wireinject
// +build wireinject

package main

import (
	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/handler"
	"Shutter/middleware"
	"Shutter/pkg/client"
	"Shutter/pkg/database"
	"Shutter/pkg/llm"
	"Shutter/pkg/rocketmq"
	"Shutter/pkg/server"
	"Shutter/pkg/storage"
	"Shutter/service"
	"Shutter/worker"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	client.NewRedisClient,
	database.NewDB,
	config.ProvideStorageConfig,
	config.ProvideLlmConfig,
	config.ProvideRocketMQConfig,
	storage.New,
	llm.New,
	rocketmq.NewProducer,
	cache.ProviderSet,
	dao.ProviderSet,
	service.ProviderSet,
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(
		infraSet,
		middleware.NewAuthenticator,
		server.NewGinEngine,

		wire.Struct(new(handler.Auth), "*"),
		wire.Struct(new(handler.User), "*"),
		wire.Struct(new(handler.Photo), "*"),
		wire.Struct(new(handler.Like), "*"),
		wire.Struct(new(handler.Follow), "*"),
		wire.Struct(new(handler.Comment), "*"),
		wire.Struct(new(handler.Collection), "*"),
		wire.Struct(new(handler.Category), "*"),
		wire.Struct(new(handler.Download), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil, nil
}

func InitWorker(cfg *config.Config) (*worker.Server, error) {
	wire.Build(
		infraSet,
		rocketmq.NewConsumer,
		wire.Bind(new(worker.TagConsumer), new(*rocketmq.Consumer)),
		worker.NewTagSubscribe,
		wire.Struct(new(worker.SubServers), "*"),
		worker.NewServer,
	)
	return nil, nil
}

func InitUserService(cfg *config.Config) (service.IUserService, error) {
	wire.Build(infraSet)
	return nil, nil
}
