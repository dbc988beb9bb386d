// Package grpcsvc отдаёт контроллер заказов по gRPC.
package grpcsvc

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// Orders — операции контроллера, доступные по сети (controller.Synchronized).
type Orders interface {
	CreateOrder(id int64, orderNo, customer string, amount float64) domain.OrderSnapshot
	GetByID(id int64) (domain.OrderSnapshot, error)
	GetByOrderNo(orderNo string) (domain.OrderSnapshot, error)
	UpdateAmount(orderNo string, amount float64) (domain.OrderSnapshot, error)
	UpdateCustomer(orderNo, customer string) (domain.OrderSnapshot, error)
	DeleteOrder(orderNo string) error
	ListAllOrders() ([]domain.OrderSnapshot, error)
}

// OrderService реализует OrderServiceServer поверх контроллера и журнала.
type OrderService struct {
	orders  Orders
	journal domain.JournalRepository
	logger  *log.Entry
}

// NewOrderService конструирует сервис. journal может быть nil.
func NewOrderService(orders Orders, journal domain.JournalRepository, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &OrderService{orders: orders, journal: journal, logger: logger}
}

// CreateOrder создаёт заказ. Повторяющийся номер не является ошибкой.
func (s *OrderService) CreateOrder(_ context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	order := s.orders.CreateOrder(req.ID, req.OrderNo, req.Customer, req.Amount)
	return &OrderResponse{Order: order}, nil
}

// GetOrder ищет заказ по номеру, если он задан, иначе по id.
func (s *OrderService) GetOrder(_ context.Context, req *GetOrderRequest) (*OrderResponse, error) {
	if req == nil || (req.ID == nil && req.OrderNo == "") {
		return nil, status.Error(codes.InvalidArgument, "id or order_no is required")
	}
	if req.ID != nil && req.OrderNo != "" {
		return nil, status.Error(codes.InvalidArgument, "only one of id and order_no may be set")
	}

	var (
		order domain.OrderSnapshot
		err   error
	)
	if req.OrderNo != "" {
		order, err = s.orders.GetByOrderNo(req.OrderNo)
	} else {
		order, err = s.orders.GetByID(*req.ID)
	}
	if err != nil {
		return nil, s.toStatus("GetOrder", err)
	}
	return &OrderResponse{Order: order}, nil
}

func (s *OrderService) UpdateAmount(_ context.Context, req *UpdateAmountRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	order, err := s.orders.UpdateAmount(req.OrderNo, req.Amount)
	if err != nil {
		return nil, s.toStatus("UpdateAmount", err)
	}
	return &OrderResponse{Order: order}, nil
}

func (s *OrderService) UpdateCustomer(_ context.Context, req *UpdateCustomerRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	order, err := s.orders.UpdateCustomer(req.OrderNo, req.Customer)
	if err != nil {
		return nil, s.toStatus("UpdateCustomer", err)
	}
	return &OrderResponse{Order: order}, nil
}

func (s *OrderService) DeleteOrder(_ context.Context, req *DeleteOrderRequest) (*DeleteOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := s.orders.DeleteOrder(req.OrderNo); err != nil {
		return nil, s.toStatus("DeleteOrder", err)
	}
	return &DeleteOrderResponse{OrderNo: req.OrderNo, Deleted: true}, nil
}

// ListOrders возвращает все заказы в порядке добавления; пустой список не ошибка.
func (s *OrderService) ListOrders(_ context.Context, _ *ListOrdersRequest) (*ListOrdersResponse, error) {
	orders, err := s.orders.ListAllOrders()
	switch {
	case errors.Is(err, domain.ErrNoOrders):
		return &ListOrdersResponse{Orders: []domain.OrderSnapshot{}}, nil
	case err != nil:
		return nil, s.toStatus("ListOrders", err)
	}
	return &ListOrdersResponse{Orders: orders}, nil
}

func (s *OrderService) ListJournal(_ context.Context, req *ListJournalRequest) (*ListJournalResponse, error) {
	if req == nil || req.OrderNo == "" {
		return nil, status.Error(codes.InvalidArgument, "order_no is required")
	}
	if s.journal == nil {
		return nil, status.Error(codes.Unavailable, "order journal is not configured")
	}

	entries, err := s.journal.List(req.OrderNo)
	if err != nil {
		s.logger.WithError(err).WithField("order_no", req.OrderNo).Error("failed to list journal")
		return nil, status.Error(codes.Internal, "failed to list journal")
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &ListJournalResponse{Entries: entries}, nil
}

// toStatus переводит доменную ошибку в gRPC-статус.
func (s *OrderService) toStatus(operation string, err error) error {
	entry := s.logger.WithError(err).WithField("operation", operation)

	switch {
	case domain.IsNotFound(err):
		entry.Debug("order not found")
		return status.Error(codes.NotFound, err.Error())
	case domain.IsInvalidInput(err):
		entry.Debug("invalid order input")
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNoOrders):
		return status.Error(codes.NotFound, err.Error())
	default:
		entry.Error("order operation failed")
		return status.Error(codes.Internal, "internal error")
	}
}

// UnaryLoggingInterceptor пишет каждый вызов в лог с кодом ответа и длительностью.
func UnaryLoggingInterceptor(logger *log.Entry) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = log.WithField("component", "grpc")
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.WithFields(log.Fields{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("grpc request")
		return resp, err
	}
}

var _ OrderServiceServer = (*OrderService)(nil)
