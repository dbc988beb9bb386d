// Package app собирает сервис заказов: gRPC, REST API и HTTP-метрики.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/vladislavdragonenkov/ordermvc/internal/health"
	grpcsvc "github.com/vladislavdragonenkov/ordermvc/internal/service/grpc"
	"github.com/vladislavdragonenkov/ordermvc/internal/service/httpapi"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// server держит слушающие сокеты и серверы одного запуска.
type server struct {
	deps   *Dependencies
	logger *log.Entry

	grpcServer   *grpc.Server
	grpcHealth   *grpchealth.Server
	apiServer    *http.Server
	metricsSrv   *http.Server
	grpcLis      net.Listener
	apiLis       net.Listener
	metricsLis   net.Listener
	closeTimeout time.Duration
}

// Run запускает сервис и блокируется до отмены ctx или падения одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	srv, err := newServer(ctx, cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	return srv.serve(ctx)
}

func newServer(ctx context.Context, cfg Config, registerer prometheus.Registerer, gatherer prometheus.Gatherer) (*server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, registerer, logger)
	if err != nil {
		return nil, err
	}

	s := &server{deps: deps, logger: logger, closeTimeout: shutdownTimeout}
	s.grpcServer, s.grpcHealth = newGRPCServer(deps, registerer, logger)
	s.apiServer = &http.Server{
		Handler:           httpapi.Router(deps.Controller, deps.Journal, logger.WithField("layer", "http")),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.metricsSrv = &http.Server{
		Handler:           metricsMux(gatherer, deps.Health),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	if s.grpcLis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
		s.release()
		return nil, fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddr, err)
	}
	if s.apiLis, err = net.Listen("tcp", cfg.HTTPAddr); err != nil {
		s.release()
		return nil, fmt.Errorf("listen http %s: %w", cfg.HTTPAddr, err)
	}
	if s.metricsLis, err = net.Listen("tcp", cfg.MetricsAddr); err != nil {
		s.release()
		return nil, fmt.Errorf("listen metrics %s: %w", cfg.MetricsAddr, err)
	}

	return s, nil
}

func newGRPCServer(deps *Dependencies, registerer prometheus.Registerer, logger *log.Entry) (*grpc.Server, *grpchealth.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := registerer.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok2 := are.ExistingCollector.(*promgrpc.ServerMetrics); ok2 {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcMetrics.UnaryServerInterceptor(),
		grpcsvc.UnaryLoggingInterceptor(logger.WithField("layer", "grpc")),
	))
	grpcsvc.RegisterOrderServiceServer(grpcServer, grpcsvc.NewOrderService(deps.Controller, deps.Journal, logger.WithField("layer", "grpc")))
	grpcMetrics.InitializeMetrics(grpcServer)
	reflection.Register(grpcServer)

	healthServer := grpchealth.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcsvc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}

// metricsMux отдаёт /metrics и health-пробы.
func metricsMux(gatherer prometheus.Gatherer, healthHandler *health.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	return mux
}

func (s *server) serve(ctx context.Context) error {
	defer s.deps.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Infof("gRPC сервер слушает %s", s.grpcLis.Addr())
		if err := s.grpcServer.Serve(s.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.logger.Infof("REST API доступен по адресу %s/api/v1/orders", s.apiLis.Addr())
		return serveHTTP(s.apiServer, s.apiLis, "http api")
	})
	g.Go(func() error {
		s.logger.Infof("метрики доступны по адресу %s/metrics", s.metricsLis.Addr())
		return serveHTTP(s.metricsSrv, s.metricsLis, "metrics server")
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("получен сигнал остановки, останавливаем серверы")
		s.shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func serveHTTP(srv *http.Server, lis net.Listener, name string) error {
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// shutdown останавливает gRPC с таймаутом на graceful stop, затем HTTP-серверы.
func (s *server) shutdown() {
	s.grpcHealth.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(s.closeTimeout):
		s.logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		s.grpcServer.Stop()
	}

	shutdownHTTP(s.apiServer, s.closeTimeout, s.logger)
	shutdownHTTP(s.metricsSrv, s.closeTimeout, s.logger)
}

// release закрывает то, что успело открыться, если запуск не удался.
func (s *server) release() {
	for _, lis := range []net.Listener{s.grpcLis, s.apiLis, s.metricsLis} {
		if lis != nil {
			_ = lis.Close()
		}
	}
	s.deps.Close()
}

func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
