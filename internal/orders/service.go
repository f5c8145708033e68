package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/db"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
	"github.com/angelmondragon/cafepos-backend/pkg/metrics"
)

const (
	orderNumberConstraint  = "orders_business_date_number_key"
	maxOrderNumberAttempts = 3
)

// Service defines register operations on orders.
type Service interface {
	Create(ctx context.Context, input CartInput) (*OrderDTO, error)
	Quote(ctx context.Context, input CartInput) (*QuoteDTO, error)
	List(ctx context.Context, input ListInput) ([]OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
}

// Deps groups the collaborators of the order service.
type Deps struct {
	Repo     Repository
	Tx       txRunner
	Addons   addonLoader
	Deductor stockDeductor
	Receipts receiptRecorder
	Logger   *logger.Logger
	Metrics  *metrics.POSMetrics
	Location *time.Location
	Clock    func() time.Time
}

type service struct {
	builder
	tx       txRunner
	deductor stockDeductor
	receipts receiptRecorder
	logg     *logger.Logger
	metrics  *metrics.POSMetrics
	loc      *time.Location
	now      func() time.Time
}

// NewService wires the order service. Logger and metrics are optional; the
// location defaults to UTC and the clock to time.Now.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Addons == nil {
		return nil, fmt.Errorf("addon loader required")
	}
	if deps.Deductor == nil {
		return nil, fmt.Errorf("stock deductor required")
	}
	if deps.Receipts == nil {
		return nil, fmt.Errorf("receipt recorder required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &service{
		builder:  builder{repo: deps.Repo, addons: deps.Addons},
		tx:       deps.Tx,
		deductor: deps.Deductor,
		receipts: deps.Receipts,
		logg:     deps.Logger,
		metrics:  deps.Metrics,
		loc:      deps.Location,
		now:      deps.Clock,
	}, nil
}

// Create persists the order, decrements stock and records the receipt in one
// transaction. A clash on the daily order number retries the whole unit.
func (s *service) Create(ctx context.Context, input CartInput) (*OrderDTO, error) {
	cart, err := s.price(ctx, input, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	businessDate := now.In(s.loc).Format(DateLayout)

	var (
		created *models.Order
		receipt *models.Receipt
		result  *stock.Result
	)
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			number, err := txRepo.NextOrderNumber(ctx, businessDate)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next order number")
			}
			order := cart.toOrder(number, businessDate)
			order.CreatedAt = now.UTC()
			if err := txRepo.CreateOrder(ctx, order); err != nil {
				return err
			}

			detail, err := txRepo.FindOrderDetail(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
			}
			result, err = s.deductor.Apply(ctx, tx, detail.ID, stock.BuildPlan(detail.Lines))
			if err != nil {
				return err
			}
			receipt, err = s.receipts.Record(ctx, tx, detail)
			if err != nil {
				return err
			}
			created = detail
			return nil
		})
		if err == nil || !isOrderNumberClash(err) {
			break
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "orders.number_clash_retry")
		}
	}
	if err != nil {
		if isOrderNumberClash(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number taken, retry the order")
		}
		return nil, repo.WrapTxError(err, "create order")
	}

	s.metrics.OrderCreated(created.OrderType.String(), created.Total)
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, created.ID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"order_number":  created.OrderNumber,
			"business_date": created.BusinessDate,
			"total":         created.Total.StringFixed(2),
			"stock_applied": len(result.Applied),
			"stock_skipped": len(result.Skipped),
		})
		s.logg.Info(logCtx, "orders.created")
	}

	dto := NewOrderDTO(created)
	dto.Receipt = &receipt.Snapshot
	return &dto, nil
}

func (s *service) Quote(ctx context.Context, input CartInput) (*QuoteDTO, error) {
	cart, err := s.price(ctx, input, false)
	if err != nil {
		return nil, err
	}
	dto := newQuoteDTO(cart)
	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"lines": len(cart.lines),
			"total": cart.total.StringFixed(2),
		}), "orders.quoted")
	}
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]OrderDTO, error) {
	window, err := ResolveWindow(input, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOrders(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewOrderDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		return nil, repo.WrapReadError(err, "order")
	}
	dto := NewOrderDTO(order)
	return &dto, nil
}

func isOrderNumberClash(err error) bool {
	if db.IsUniqueViolation(err, orderNumberConstraint) {
		return true
	}
	return db.IsUniqueViolation(err, "") && strings.Contains(err.Error(), "orders.order_number")
}
