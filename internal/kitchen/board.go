package kitchen

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/misterg2020/bistro-chat-connect/internal/order"
	"github.com/misterg2020/bistro-chat-connect/pkg/enums/orderstatus"
)

// BoardGroup is one status column of the kitchen board.
type BoardGroup struct {
	Status string         `json:"status"`
	Label  string         `json:"label"`
	Orders []*order.Order `json:"orders"`
}

// BoardCache holds the full order set grouped by status. Every change
// notification triggers a full refetch rather than incremental patching;
// at restaurant order volumes the simplicity is worth the O(n) cost, and
// redundant refreshes are harmless.
type BoardCache struct {
	repo   order.OrderRepo
	logger apt.Logger

	mu     sync.RWMutex
	orders []*order.Order
}

func NewBoardCache(repo order.OrderRepo, logger apt.Logger) *BoardCache {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &BoardCache{
		repo:   repo,
		logger: logger,
	}
}

// Warm does the initial load. Failures are logged, not fatal; the first
// change notification will retry.
func (b *BoardCache) Warm(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil {
		b.logger.Error("cannot warm kitchen board", "error", err)
	}
}

// Refresh re-reads the full order collection, newest-first.
func (b *BoardCache) Refresh(ctx context.Context) error {
	orders, err := b.repo.List(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.orders = orders
	b.mu.Unlock()

	b.logger.Debug("kitchen board refreshed", "orders", len(orders))
	return nil
}

// Orders returns the cached order set, newest-first.
func (b *BoardCache) Orders() []*order.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]*order.Order, len(b.orders))
	copy(result, b.orders)
	return result
}

// Groups recomputes the status columns from the cached set. Columns
// appear in lifecycle order even when empty.
func (b *BoardCache) Groups() []BoardGroup {
	orders := b.Orders()

	groups := make([]BoardGroup, 0, len(orderstatus.All))
	byStatus := make(map[string][]*order.Order, len(orderstatus.All))
	for _, o := range orders {
		byStatus[o.Status] = append(byStatus[o.Status], o)
	}

	for _, status := range orderstatus.All {
		members := byStatus[status.Name]
		if members == nil {
			members = []*order.Order{}
		}
		groups = append(groups, BoardGroup{
			Status: status.Name,
			Label:  status.Label(),
			Orders: members,
		})
	}

	return groups
}
