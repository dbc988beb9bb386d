package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcsvc "github.com/vladislavdragonenkov/ordermvc/internal/service/grpc"
)

func localConfig() Config {
	cfg := DefaultConfig()
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	return cfg
}

type runningServer struct {
	srv  *server
	done chan error
}

func startServer(t *testing.T, ctx context.Context) runningServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	srv, err := newServer(ctx, localConfig(), registry, registry)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx) }()
	return runningServer{srv: srv, done: done}
}

func httpGet(t *testing.T, addr net.Addr, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, path))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	running := startServer(t, ctx)

	conn, err := grpc.NewClient(running.srv.grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 5*time.Second)
	defer callCancel()

	client := grpcsvc.NewOrderServiceClient(conn)
	_, err = client.CreateOrder(callCtx, &grpcsvc.CreateOrderRequest{ID: 1001, OrderNo: "ORD-001", Customer: "Customer101", Amount: 2500})
	require.NoError(t, err)

	code, body := httpGet(t, running.srv.apiLis.Addr(), "/api/v1/orders/ORD-001")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":1001,"order_no":"ORD-001","customer":"Customer101","amount":2500}`, body)

	healthResp, err := healthpb.NewHealthClient(conn).Check(callCtx, &healthpb.HealthCheckRequest{Service: grpcsvc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthResp.GetStatus())

	code, body = httpGet(t, running.srv.metricsLis.Addr(), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `ordermvc_order_operations_total{operation="create",result="ok"} 1`)
	assert.Contains(t, body, "grpc_server_handled_total")

	code, body = httpGet(t, running.srv.metricsLis.Addr(), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "1 orders stored")

	code, _ = httpGet(t, running.srv.metricsLis.Addr(), "/livez")
	assert.Equal(t, http.StatusOK, code)
	code, body = httpGet(t, running.srv.metricsLis.Addr(), "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body)

	cancel()
	select {
	case err := <-running.done:
		assert.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, localConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := localConfig()
	cfg.JournalDriver = "invalid-driver"

	err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported journal driver"), err.Error())
}

func TestNewServer_AddressInUse(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := localConfig()
	cfg.HTTPAddr = busy.Addr().String()

	registry := prometheus.NewRegistry()
	_, err = newServer(context.Background(), cfg, registry, registry)
	assert.ErrorContains(t, err, "listen http")
}
