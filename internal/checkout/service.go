// Package checkout はカートの内容を注文として確定するチェックアウト処理を提供する。
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/sustainabite/internal/cart"
	"github.com/hitoshi/sustainabite/internal/metrics"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
	"github.com/hitoshi/sustainabite/internal/security"
)

// 通知メッセージ
const (
	msgOrderPlaced = "สั่งซื้อสำเร็จ! เราจะดำเนินการจัดส่งให้เร็วที่สุด"
	msgOrderFailed = "เกิดข้อผิดพลาดระหว่างการสั่งซื้อ กรุณาลองอีกครั้ง"
)

// DateLayout は配送日の入力形式。
const DateLayout = "2006-01-02"

// OrderSubmitter は注文作成のインターフェース。
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, order *model.Order) (model.CreateOrderResult, error)
}

// OutcomeRecorder はチェックアウト結果の記録先。
type OutcomeRecorder interface {
	RecordCheckout(outcome string)
}

// Request はチェックアウトの入力。
type Request struct {
	DeliveryDate string
	DeliveryNote string
}

// Service はチェックアウトのビジネスロジックを提供する。
type Service struct {
	submitter OrderSubmitter
	sanitizer security.TextSanitizer
	recorder  OutcomeRecorder
	now       func() time.Time
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(submitter OrderSubmitter, sanitizer security.TextSanitizer, recorder OutcomeRecorder) *Service {
	return &Service{
		submitter: submitter,
		sanitizer: sanitizer,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Checkout はカートの内容で注文を作成する。
//
// カートが空、配送日が未入力または不正な場合はエラー通知を発行し、
// 注文作成を呼び出さずにバリデーションエラーを返す。
// 成功時は成功通知を発行し、注文した明細をカートから取り除いて注文を返す。
// 注文作成に失敗した場合はカートを変更せずORDER_FAILEDを返す。
func (s *Service) Checkout(ctx context.Context, userID string, c *cart.Cart, notifier notification.Notifier, req Request) (*model.Order, error) {
	summary := c.Summary()

	deliveryDate, err := validate(summary, req)
	if err != nil {
		notifier.Push(err.Message, notification.SeverityError)
		s.record(metrics.OutcomeRejected)
		return nil, err
	}

	order := &model.Order{
		UserID:       userID,
		Lines:        toOrderLines(summary.Lines),
		Subtotal:     summary.Subtotal,
		ShippingFee:  summary.ShippingFee,
		Total:        summary.Total,
		ItemCount:    summary.ItemCount,
		DeliveryDate: deliveryDate,
		DeliveryNote: s.sanitizer.Sanitize(req.DeliveryNote),
		Status:       model.OrderStatusPending,
	}

	result, submitErr := s.submitter.CreateOrder(ctx, order)
	if submitErr == nil && !result.Success {
		submitErr = fmt.Errorf("order was not accepted: %s", result.Message)
	}
	if submitErr != nil {
		slog.Error("checkout failed",
			slog.String("user_id", userID),
			slog.String("error", submitErr.Error()),
		)
		notifier.Push(msgOrderFailed, notification.SeverityError)
		s.record(metrics.OutcomeFailure)
		return nil, model.NewOrderFailedError()
	}

	c.RemoveLines(summary.Lines)
	notifier.Push(msgOrderPlaced, notification.SeveritySuccess)
	s.record(metrics.OutcomeSuccess)

	slog.Info("checkout completed",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.Int("lines", len(order.Lines)),
	)
	return order, nil
}

// validate は注文前の入力を検証し、配送日を返す。
func validate(summary cart.Summary, req Request) (time.Time, *model.APIError) {
	if len(summary.Lines) == 0 {
		return time.Time{}, model.NewEmptyCartError()
	}

	raw := strings.TrimSpace(req.DeliveryDate)
	if raw == "" {
		return time.Time{}, model.NewDeliveryDateRequiredError()
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, model.NewInvalidDeliveryDateError(raw)
	}
	return date, nil
}

func toOrderLines(lines []cart.Line) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, model.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Unit:      l.Unit,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		})
	}
	return out
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordCheckout(outcome)
	}
}
