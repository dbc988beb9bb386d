package grpcsvc_test

import (
	"context"
	"net"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/ordermvc/internal/controller"
	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
	grpcsvc "github.com/vladislavdragonenkov/ordermvc/internal/service/grpc"
	"github.com/vladislavdragonenkov/ordermvc/internal/service/journal"
	"github.com/vladislavdragonenkov/ordermvc/internal/storage/memory"
	"github.com/vladislavdragonenkov/ordermvc/internal/view"
)

const bufSize = 1024 * 1024

type testServer struct {
	client *grpcsvc.OrderServiceClient
	hook   *test.Hook
}

func newTestServer(t *testing.T, withJournal bool) testServer {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	entry := logger.WithField("component", "test")

	var journalRepo domain.JournalRepository
	var listeners []domain.OrderListener
	if withJournal {
		journalRepo = memory.NewJournalRepository()
		listeners = append(listeners, journal.NewRecorder(journalRepo, entry, nil))
	}

	ctrl := controller.New(view.NewLogView(entry), memory.NewOrderRepository(),
		controller.WithLogger(entry),
		controller.WithListeners(listeners...),
	)
	service := grpcsvc.NewOrderService(controller.NewSynchronized(ctrl), journalRepo, entry)

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcsvc.UnaryLoggingInterceptor(entry)))
	grpcsvc.RegisterOrderServiceServer(server, service)
	go func() { _ = server.Serve(listener) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return listener.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return testServer{client: grpcsvc.NewOrderServiceClient(conn), hook: hook}
}

func callCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), "unexpected status: %v", err)
}

func seed(t *testing.T, client *grpcsvc.OrderServiceClient) {
	t.Helper()
	ctx := callCtx(t)
	for _, req := range []*grpcsvc.CreateOrderRequest{
		{ID: 1001, OrderNo: "ORD-001", Customer: "Customer101", Amount: 2500},
		{ID: 1002, OrderNo: "ORD-002", Customer: "Customer102", Amount: 3500},
	} {
		_, err := client.CreateOrder(ctx, req)
		require.NoError(t, err)
	}
}

func TestOrderService_CreateAndGet(t *testing.T) {
	srv := newTestServer(t, false)
	ctx := callCtx(t)

	created, err := srv.client.CreateOrder(ctx, &grpcsvc.CreateOrderRequest{ID: 1001, OrderNo: "ORD-001", Customer: "Customer101", Amount: 2500})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderSnapshot{ID: 1001, OrderNo: "ORD-001", Customer: "Customer101", Amount: 2500}, created.Order)

	byNo, err := srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{OrderNo: "ORD-001"})
	require.NoError(t, err)
	assert.Equal(t, created.Order, byNo.Order)

	id := int64(1001)
	byID, err := srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{ID: &id})
	require.NoError(t, err)
	assert.Equal(t, created.Order, byID.Order)
}

func TestOrderService_GetOrderErrors(t *testing.T) {
	srv := newTestServer(t, false)
	seed(t, srv.client)
	ctx := callCtx(t)

	_, err := srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{})
	requireCode(t, err, codes.InvalidArgument)

	id := int64(1001)
	_, err = srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{ID: &id, OrderNo: "ORD-001"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{OrderNo: "ORD-404"})
	requireCode(t, err, codes.NotFound)
	assert.Contains(t, status.Convert(err).Message(), domain.ErrInvalidOrderNo.Error())

	missing := int64(9999)
	_, err = srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{ID: &missing})
	requireCode(t, err, codes.NotFound)
}

func TestOrderService_Updates(t *testing.T) {
	srv := newTestServer(t, false)
	seed(t, srv.client)
	ctx := callCtx(t)

	updated, err := srv.client.UpdateAmount(ctx, &grpcsvc.UpdateAmountRequest{OrderNo: "ORD-001", Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, updated.Order.Amount)

	_, err = srv.client.UpdateAmount(ctx, &grpcsvc.UpdateAmountRequest{OrderNo: "ORD-001", Amount: -5})
	requireCode(t, err, codes.InvalidArgument)

	_, err = srv.client.UpdateAmount(ctx, &grpcsvc.UpdateAmountRequest{OrderNo: "ORD-404", Amount: 10})
	requireCode(t, err, codes.NotFound)

	renamed, err := srv.client.UpdateCustomer(ctx, &grpcsvc.UpdateCustomerRequest{OrderNo: "ORD-002", Customer: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", renamed.Order.Customer)

	_, err = srv.client.UpdateCustomer(ctx, &grpcsvc.UpdateCustomerRequest{OrderNo: "ORD-002"})
	requireCode(t, err, codes.InvalidArgument)

	got, err := srv.client.GetOrder(ctx, &grpcsvc.GetOrderRequest{OrderNo: "ORD-001"})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, got.Order.Amount, "rejected update must not change the amount")
}

func TestOrderService_DeleteAndList(t *testing.T) {
	srv := newTestServer(t, false)
	ctx := callCtx(t)

	empty, err := srv.client.ListOrders(ctx, &grpcsvc.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Empty(t, empty.Orders)

	seed(t, srv.client)

	deleted, err := srv.client.DeleteOrder(ctx, &grpcsvc.DeleteOrderRequest{OrderNo: "ORD-001"})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = srv.client.DeleteOrder(ctx, &grpcsvc.DeleteOrderRequest{OrderNo: "ORD-001"})
	requireCode(t, err, codes.NotFound)

	list, err := srv.client.ListOrders(ctx, &grpcsvc.ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "ORD-002", list.Orders[0].OrderNo)
}

func TestOrderService_ListJournal(t *testing.T) {
	srv := newTestServer(t, true)
	seed(t, srv.client)
	ctx := callCtx(t)

	_, err := srv.client.UpdateAmount(ctx, &grpcsvc.UpdateAmountRequest{OrderNo: "ORD-001", Amount: 3000})
	require.NoError(t, err)

	resp, err := srv.client.ListJournal(ctx, &grpcsvc.ListJournalRequest{OrderNo: "ORD-001"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, domain.OrderEventCreated, resp.Entries[0].Type)
	assert.Equal(t, domain.OrderEventAmountUpdated, resp.Entries[1].Type)
	assert.Equal(t, "amount set to 3000", resp.Entries[1].Detail)

	_, err = srv.client.ListJournal(ctx, &grpcsvc.ListJournalRequest{})
	requireCode(t, err, codes.InvalidArgument)
}

func TestOrderService_ListJournalWithoutStore(t *testing.T) {
	srv := newTestServer(t, false)

	_, err := srv.client.ListJournal(callCtx(t), &grpcsvc.ListJournalRequest{OrderNo: "ORD-001"})
	requireCode(t, err, codes.Unavailable)
}

func TestUnaryLoggingInterceptor_LogsEachCall(t *testing.T) {
	srv := newTestServer(t, false)

	_, err := srv.client.GetOrder(callCtx(t), &grpcsvc.GetOrderRequest{OrderNo: "ORD-404"})
	requireCode(t, err, codes.NotFound)

	var found bool
	for _, entry := range srv.hook.AllEntries() {
		if entry.Message == "grpc request" {
			found = true
			assert.Equal(t, "/ordermvc.v1.OrderService/GetOrder", entry.Data["method"])
			assert.Equal(t, codes.NotFound.String(), entry.Data["code"])
		}
	}
	assert.True(t, found, "request log entry is missing")
}
