package shipping

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/markethub/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultAdapterTimeout bounds one adapter invocation. Formula-based
// adapters complete synchronously, but the contract anticipates
// network-backed adapters.
const DefaultAdapterTimeout = 2 * time.Second

// CarrierManager fans a shipment request out to all registered carrier
// adapters, isolating per-adapter failure. It holds no mutable state
// across requests and performs no caching: every call is a fresh
// computation over the current adapter set.
type CarrierManager struct {
	adapters []CarrierAdapter
	timeout  time.Duration
	logger   *zap.Logger
}

// ManagerOption is a functional option for CarrierManager configuration
type ManagerOption func(*CarrierManager)

// WithAdapterTimeout sets the per-adapter invocation timeout
func WithAdapterTimeout(d time.Duration) ManagerOption {
	return func(m *CarrierManager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewCarrierManager creates a CarrierManager. Adapter registration order
// is significant: it breaks cost ties in the sorted results.
func NewCarrierManager(logger *zap.Logger, opts ...ManagerOption) *CarrierManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &CarrierManager{
		timeout: DefaultAdapterTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register appends an adapter to the fan-out set
func (m *CarrierManager) Register(adapter CarrierAdapter) *CarrierManager {
	m.adapters = append(m.adapters, adapter)
	return m
}

// Carriers returns the registered carrier names in registration order
func (m *CarrierManager) Carriers() []string {
	names := make([]string, len(m.adapters))
	for i, a := range m.adapters {
		names[i] = a.Name()
	}
	return names
}

// GetQuotes invokes every registered adapter concurrently. A failing or
// panicking adapter is logged and excluded; it never aborts the overall
// aggregation. Adapters with no offer are silently skipped. The result is
// sorted ascending by cost, with registration order breaking ties.
func (m *CarrierManager) GetQuotes(ctx context.Context, req ShipmentRequest) []*Quote {
	results := make([]*Quote, len(m.adapters))

	var g errgroup.Group
	for i, adapter := range m.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			results[i] = m.safeQuote(ctx, adapter, req)
			return nil
		})
	}
	// safeQuote never returns an error; failures become exclusions
	_ = g.Wait()

	quotes := make([]*Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, q)
		}
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Cost.LessThan(quotes[j].Cost)
	})
	return quotes
}

// GetBestQuote returns the cheapest available quote, or nil when no
// carrier can service the request.
func (m *CarrierManager) GetBestQuote(ctx context.Context, req ShipmentRequest) *Quote {
	quotes := m.GetQuotes(ctx, req)
	if len(quotes) == 0 {
		return nil
	}
	return quotes[0]
}

// GetQuoteByCarrier quotes a single carrier by name. An unregistered name
// fails fast with a carrier-not-supported error, unlike the silent
// exclusion used during fan-out. An adapter failure propagates to the
// caller here because there is no aggregate to fall back on.
func (m *CarrierManager) GetQuoteByCarrier(ctx context.Context, req ShipmentRequest, carrier string) (*Quote, error) {
	var adapter CarrierAdapter
	for _, a := range m.adapters {
		if strings.EqualFold(a.Name(), carrier) {
			adapter = a
			break
		}
	}
	if adapter == nil {
		return nil, shared.NewDomainError("CARRIER_NOT_SUPPORTED", fmt.Sprintf("carrier not supported: %s", carrier))
	}

	qctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	quote, err := adapter.Quote(qctx, req)
	if err != nil {
		return nil, fmt.Errorf("carrier %s: %w", adapter.Name(), err)
	}
	return quote, nil
}

// safeQuote invokes one adapter under the per-adapter timeout, recovering
// panics and converting any failure into exclusion from the result set.
func (m *CarrierManager) safeQuote(ctx context.Context, adapter CarrierAdapter, req ShipmentRequest) (quote *Quote) {
	qctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Carrier adapter panicked, excluding from results",
				zap.String("carrier", adapter.Name()),
				zap.Any("panic", r),
			)
			quote = nil
		}
	}()

	q, err := adapter.Quote(qctx, req)
	if err != nil {
		m.logger.Warn("Carrier adapter failed, excluding from results",
			zap.String("carrier", adapter.Name()),
			zap.Error(err),
		)
		return nil
	}
	return q
}
