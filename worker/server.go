package worker

import (
	"context"
	"reflect"
	"sync"

	"Shutter/pkg/log"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type IServer interface {
	Init() error
	Setup(ctx context.Context) error
}

// SubServers 订阅的服务列表
type SubServers struct {
	TagSubscribe *TagSubscribe
}

type Server struct {
	items []IServer
	once  sync.Once
	SubServers
}

func NewServer(servers *SubServers) *Server {
	s := &Server{SubServers: *servers}
	s.binds(servers)
	return s
}

func (s *Server) binds(servers *SubServers) {
	elem := reflect.ValueOf(servers).Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() == reflect.Ptr && field.IsNil() {
			continue
		}
		if v, ok := field.Interface().(IServer); ok {
			s.items = append(s.items, v)
		}
	}
}

// Start runs every subscriber on eg until ctx is cancelled.
func (s *Server) Start(eg *errgroup.Group, ctx context.Context) error {
	var err error
	s.once.Do(func() {
		for _, process := range s.items {
			if err = process.Init(); err != nil {
				log.L.Error("init subscriber", zap.Error(err))
				return
			}
		}
		for _, process := range s.items {
			serv := process
			eg.Go(func() error {
				return serv.Setup(ctx)
			})
		}
		log.L.Info("worker started", zap.Int("subscribers", len(s.items)))
	})
	return err
}
