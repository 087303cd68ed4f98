package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Shutter/config"
	"Shutter/middleware"
	"Shutter/pkg/log"
	"Shutter/pkg/response"
	"Shutter/pkg/validate"
	"Shutter/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider struct {
	Config     *config.Config
	Engine     *gin.Engine
	TagService service.ITagService
}

// ServerID identifies this instance in logs, formatted as ip:port.
func ServerID(port int) string {
	ip, err := getLocalIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", ip, port)
}

func getLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		// 检查 ip 网络地址，排除回环地址
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	return "", errors.New("no ip address found")
}

func NewGinEngine(cfg *config.Config, h *Handlers) *gin.Engine {
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validate.Install(); err != nil {
		log.L.Fatal("install validators", zap.Error(err))
	}
	r := gin.New()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GinZap(), gin.Recovery())
	r.Use(middleware.AllowedHosts(cfg.App.AllowedHosts))
	r.Use(middleware.PrometheusMiddleware(), response.ErrorMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	h.Auth.RegisterRouter(api)
	h.User.RegisterRouter(api)
	h.Photo.RegisterRouter(api)
	h.Like.RegisterRouter(api)
	h.Follow.RegisterRouter(api)
	h.Comment.RegisterRouter(api)
	h.Collection.RegisterRouter(api)
	h.Category.RegisterRouter(api)
	h.Download.RegisterRouter(api)
	return r
}

func Run(ctx *cli.Context, app *AppProvider) error {
	eg, groupCtx := errgroup.WithContext(ctx.Context)
	c := make(chan os.Signal, 1)
	// 终止的信号 服务要停止了
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

	serverID := ServerID(app.Config.Server.Http)
	log.L.Info("server starting", zap.String("serverId", serverID),
		zap.Int("port", app.Config.Server.Http),
		zap.String("env", app.Config.App.Env),
	)

	return run(c, eg, groupCtx, app, serverID)
}

func run(c chan os.Signal, eg *errgroup.Group, ctx context.Context, app *AppProvider, serverID string) error {
	serv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Config.Server.Http),
		Handler: app.Engine,
	}

	// 启动 http 服务
	eg.Go(func() error {
		err := serv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	eg.Go(func() error {
		defer func() {
			log.L.Info("server stopping", zap.String("serverId", serverID))

			// 等待中断信号以优雅地关闭服务器
			timeCtx, timeCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer timeCancel()

			if err := serv.Shutdown(timeCtx); err != nil {
				log.L.Info("server stopping", zap.String("serverId", serverID), zap.Error(err))
			}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c:
			return nil
		}
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.L.Info("server stopping", zap.Error(err))
	}

	// queued tag jobs finish before exit
	if app.TagService != nil {
		app.TagService.Close()
	}

	log.L.Info("server stopped", zap.String("serverId", serverID))

	return nil
}
