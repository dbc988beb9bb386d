package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName — полное имя gRPC-сервиса заказов.
const ServiceName = "ordermvc.v1.OrderService"

// OrderServiceServer — серверная часть API заказов.
type OrderServiceServer interface {
	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	UpdateAmount(context.Context, *UpdateAmountRequest) (*OrderResponse, error)
	UpdateCustomer(context.Context, *UpdateCustomerRequest) (*OrderResponse, error)
	DeleteOrder(context.Context, *DeleteOrderRequest) (*DeleteOrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	ListJournal(context.Context, *ListJournalRequest) (*ListJournalResponse, error)
}

// OrderServiceDesc описывает сервис для grpc.Server без сгенерированных стабов.
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateOrder", OrderServiceServer.CreateOrder),
		unaryMethod("GetOrder", OrderServiceServer.GetOrder),
		unaryMethod("UpdateAmount", OrderServiceServer.UpdateAmount),
		unaryMethod("UpdateCustomer", OrderServiceServer.UpdateCustomer),
		unaryMethod("DeleteOrder", OrderServiceServer.DeleteOrder),
		unaryMethod("ListOrders", OrderServiceServer.ListOrders),
		unaryMethod("ListJournal", OrderServiceServer.ListJournal),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ordermvc/v1/order_service",
}

// RegisterOrderServiceServer регистрирует реализацию на сервере.
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryMethod[Req, Resp any](method string, call func(OrderServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, err
			}
			server := srv.(OrderServiceServer)
			if interceptor == nil {
				return call(server, ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			})
		},
	}
}

// OrderServiceClient — клиент API заказов поверх JSON-кодека.
type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient создаёт клиента.
func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	resp := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *OrderServiceClient) CreateOrder(ctx context.Context, req *CreateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, "CreateOrder", req, opts)
}

func (c *OrderServiceClient) GetOrder(ctx context.Context, req *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, "GetOrder", req, opts)
}

func (c *OrderServiceClient) UpdateAmount(ctx context.Context, req *UpdateAmountRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, "UpdateAmount", req, opts)
}

func (c *OrderServiceClient) UpdateCustomer(ctx context.Context, req *UpdateCustomerRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, "UpdateCustomer", req, opts)
}

func (c *OrderServiceClient) DeleteOrder(ctx context.Context, req *DeleteOrderRequest, opts ...grpc.CallOption) (*DeleteOrderResponse, error) {
	return invoke[DeleteOrderResponse](ctx, c.cc, "DeleteOrder", req, opts)
}

func (c *OrderServiceClient) ListOrders(ctx context.Context, req *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, "ListOrders", req, opts)
}

func (c *OrderServiceClient) ListJournal(ctx context.Context, req *ListJournalRequest, opts ...grpc.CallOption) (*ListJournalResponse, error) {
	return invoke[ListJournalResponse](ctx, c.cc, "ListJournal", req, opts)
}
