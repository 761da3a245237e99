package paper

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"papertrade/pkg/bus"
	"papertrade/pkg/common"
	"papertrade/pkg/exchange"
	"papertrade/pkg/utility"
	"papertrade/pkg/utility/circular"
	"papertrade/pkg/utility/fixed"
)

const (
	engineComponentName = "exchange.paper.engine"

	defaultEventCapacity = 200
	defaultCurrency      = "USD"
)

// OrderRequest is what callers hand to PlaceOrder. Protective levels are
// requested as pip offsets from the eventual fill price, not absolute prices.
type OrderRequest struct {
	Symbol         string
	Side           common.OrderSide
	Type           common.OrderType
	Lots           fixed.Point
	LimitPrice     fixed.Point
	StopLossPips   fixed.Point
	TakeProfitPips fixed.Point
	Comment        string
}

// Engine is the order/position store of the simulated exchange. It fills
// orders against the latest synthetic tick, nets fills into at most one open
// position per instrument, and re-marks open positions on every tick.
//
// All mutation goes through the engine's methods; views only ever read
// snapshots. The mutex serializes HTTP handlers against the feed's tick
// callbacks, which is the only concurrency the simulator has.
type Engine struct {
	mu      sync.Mutex
	symbols exchange.SymbolStore
	router  *bus.Router
	clock   func() time.Time

	currency      string
	eventCapacity uint

	balance    fixed.Point
	equity     fixed.Point
	peakEquity fixed.Point
	dayStart   fixed.Point
	day        time.Time

	lastTicks map[string]common.Tick
	orders    []*common.Order
	positions map[string]*common.Position
	events    *circular.Buffer[common.TradeEvent]

	listenersMu sync.Mutex
	listenerSeq uint64
	listeners   map[uint64]func()
}

func NewEngine(symbols exchange.SymbolStore, options ...Option) *Engine {
	e := &Engine{
		symbols:       symbols,
		clock:         time.Now,
		currency:      defaultCurrency,
		eventCapacity: defaultEventCapacity,
		balance:       fixed.FromInt(100_000, 0),
		lastTicks:     make(map[string]common.Tick),
		positions:     make(map[string]*common.Position),
		listeners:     make(map[uint64]func()),
	}

	for _, option := range options {
		option(e)
	}

	e.equity = e.balance
	e.peakEquity = e.balance
	e.dayStart = e.balance
	e.day = e.clock().UTC().Truncate(24 * time.Hour)
	e.events = circular.NewBuffer[common.TradeEvent](e.eventCapacity)

	return e
}

// PlaceOrder validates and either fills (MARKET) or parks (LIMIT) the
// request. Validation is fail-fast, first violated rule wins; a rejected
// order leaves no trace in the store and emits no event.
func (e *Engine) PlaceOrder(req OrderRequest) (common.Order, error) {
	e.mu.Lock()
	order, err := e.placeOrder(req)
	e.mu.Unlock()

	if err == nil {
		e.notify()
	}
	return order, err
}

func (e *Engine) placeOrder(req OrderRequest) (common.Order, error) {
	if err := e.validate(req); err != nil {
		return common.Order{}, err
	}

	symbol := strings.ToUpper(req.Symbol)
	info := e.symbols.MustGet(symbol)
	now := e.clock()

	order := &common.Order{
		Id:             utility.CreateTraceID(),
		Symbol:         symbol,
		Side:           req.Side,
		Type:           req.Type,
		Lots:           req.Lots,
		Status:         common.OrderStatusPending,
		StopLossPips:   req.StopLossPips,
		TakeProfitPips: req.TakeProfitPips,
		Comment:        req.Comment,
		Source:         engineComponentName,
		TimeStamp:      now,
	}

	if req.Type == common.OrderTypeLimit {
		order.LimitPrice = info.Round(req.LimitPrice)
		e.orders = append(e.orders, order)
		e.recordEvent(common.TradeEvent{
			Kind:      common.TradeEventOrderPlaced,
			Order:     snapshotOrder(order),
			TimeStamp: now,
		})
		return *order, nil
	}

	// MARKET orders never occupy PENDING, they fill synchronously against
	// the latest tick or are rejected outright.
	tick, ok := e.lastTicks[symbol]
	if !ok {
		return common.Order{}, ErrNoMarketData
	}

	e.orders = append(e.orders, order)
	e.recordEvent(common.TradeEvent{
		Kind:      common.TradeEventOrderPlaced,
		Order:     snapshotOrder(order),
		TimeStamp: now,
	})

	fillPrice := e.executionPrice(info, tick, order.Side)
	e.fill(info, order, fillPrice, now)
	e.markToMarket(info, tick)
	e.refreshAccount(now)

	return *order, nil
}

func (e *Engine) validate(req OrderRequest) error {
	if req.Symbol == "" {
		return ErrSymbolRequired
	}
	if !e.symbols.Contains(req.Symbol) {
		return ErrUnknownSymbol
	}
	if req.Side != common.OrderSideBuy && req.Side != common.OrderSideSell {
		return ErrInvalidSide
	}
	if req.Type != common.OrderTypeMarket && req.Type != common.OrderTypeLimit {
		return ErrInvalidType
	}
	if !req.Lots.IsPos() {
		return ErrInvalidLots
	}
	if req.Type == common.OrderTypeLimit && !req.LimitPrice.IsPos() {
		return ErrLimitPriceRequired
	}
	return nil
}

// CancelOrder moves a PENDING order to CANCELLED. Any other state, or an
// unknown id, is a silent no-op so the call is idempotent.
func (e *Engine) CancelOrder(id utility.TraceID) {
	e.mu.Lock()
	cancelled := e.cancelOrder(id)
	e.mu.Unlock()

	if cancelled {
		e.notify()
	}
}

func (e *Engine) cancelOrder(id utility.TraceID) bool {
	for _, order := range e.orders {
		if order.Id != id {
			continue
		}
		if order.Status != common.OrderStatusPending {
			return false
		}
		order.Status = common.OrderStatusCancelled
		e.recordEvent(common.TradeEvent{
			Kind:      common.TradeEventOrderCancelled,
			Order:     snapshotOrder(order),
			TimeStamp: e.clock(),
		})
		return true
	}
	return false
}

// ClosePosition removes the position at the current closable price and
// realizes its P/L into the balance. Unknown ids are a silent no-op.
func (e *Engine) ClosePosition(id utility.TraceID) {
	e.mu.Lock()
	closed := e.closePosition(id)
	e.mu.Unlock()

	if closed {
		e.notify()
	}
}

func (e *Engine) closePosition(id utility.TraceID) bool {
	for symbol, position := range e.positions {
		if position.Id != id {
			continue
		}
		info := e.symbols.MustGet(symbol)
		now := e.clock()

		closePrice := position.EntryPrice
		if tick, ok := e.lastTicks[symbol]; ok {
			closePrice = closablePrice(position.Side, tick)
		}
		e.closeAt(info, position, closePrice, now)
		e.refreshAccount(now)
		return true
	}
	return false
}

// OnTick is the engine's per-update pulse, shaped to plug straight into a
// bus.TickEventHandler. Pending fills happen before P/L recomputation, and
// both happen before subscribers are notified, so a freshly-filled
// position's P/L reflects the tick that filled it.
func (e *Engine) OnTick(_ context.Context, tick common.Tick) {
	symbol := strings.ToUpper(tick.Symbol)
	info, err := e.symbols.Get(symbol)
	if err != nil {
		slog.Warn("symbol info is not present, dropping tick", "symbol", tick.Symbol)
		return
	}

	e.mu.Lock()

	tick.Symbol = symbol
	if !tick.HasBook() {
		half := info.HalfSpread()
		tick.Bid = info.Round(tick.Last.Sub(half))
		tick.Ask = info.Round(tick.Last.Add(half))
	}
	e.lastTicks[symbol] = tick

	e.fillEligiblePending(info, tick)
	e.applyProtectiveStops(info, tick)
	e.markToMarket(info, tick)
	e.refreshAccount(tick.TimeStamp)

	e.mu.Unlock()
	e.notify()
}

// fillEligiblePending walks pending LIMIT orders for the ticked symbol in
// insertion order, so simultaneously eligible orders fill oldest first.
// Fill price is exactly the limit price, no slippage.
func (e *Engine) fillEligiblePending(info exchange.SymbolInfo, tick common.Tick) {
	for _, order := range e.orders {
		if order.Status != common.OrderStatusPending || order.Symbol != tick.Symbol {
			continue
		}
		buyReached := order.Side == common.OrderSideBuy && tick.Last.Lte(order.LimitPrice)
		sellReached := order.Side == common.OrderSideSell && tick.Last.Gte(order.LimitPrice)
		if buyReached || sellReached {
			e.fill(info, order, order.LimitPrice, tick.TimeStamp)
		}
	}
}

// applyProtectiveStops closes the open position when the closable side of
// the book crosses its stop-loss or take-profit.
func (e *Engine) applyProtectiveStops(info exchange.SymbolInfo, tick common.Tick) {
	position, ok := e.positions[tick.Symbol]
	if !ok {
		return
	}
	if triggered, price := protectiveTrigger(position, tick); triggered {
		e.closeAt(info, position, price, tick.TimeStamp)
	}
}

// markToMarket recomputes unrealized P/L for the ticked symbol's position.
// A long marks against the bid, a short against the ask: the price the
// position could actually close at right now.
func (e *Engine) markToMarket(info exchange.SymbolInfo, tick common.Tick) {
	position, ok := e.positions[tick.Symbol]
	if !ok {
		return
	}

	mark := closablePrice(position.Side, tick)
	position.MarkPrice = mark
	position.UnrealizedPnl = pnl(info, position.Side, position.EntryPrice, mark, position.Lots)
	position.UpdatedAt = tick.TimeStamp

	if e.router != nil {
		if err := e.router.Post(bus.PositionEvent, *position); err != nil {
			slog.Warn("unable to post position event", "error", err)
		}
	}
}

func (e *Engine) refreshAccount(at time.Time) {
	// Daily loss is measured from the balance at the start of the current
	// UTC day, so the baseline rolls on the first update past midnight.
	if day := at.UTC().Truncate(24 * time.Hour); day.After(e.day) {
		e.day = day
		e.dayStart = e.balance
	}

	equity := e.balance
	for _, position := range e.positions {
		equity = equity.Add(position.UnrealizedPnl)
	}

	changed := !equity.Eq(e.equity)
	e.equity = equity
	e.peakEquity = e.peakEquity.Max(equity)

	if changed && e.router != nil {
		if err := e.router.Post(bus.AccountEvent, e.account(at)); err != nil {
			slog.Warn("unable to post account event", "error", err)
		}
	}
}

func (e *Engine) account(at time.Time) common.Account {
	openLots := fixed.Zero
	for _, position := range e.positions {
		openLots = openLots.Add(position.Lots)
	}
	return common.Account{
		Currency:        e.currency,
		Balance:         e.balance,
		Equity:          e.equity,
		PeakEquity:      e.peakEquity,
		DayStartBalance: e.dayStart,
		OpenLots:        openLots,
		TimeStamp:       at,
	}
}

func (e *Engine) recordEvent(event common.TradeEvent) {
	e.events.Push(event)
	if e.router != nil {
		if err := e.router.Post(bus.TradeEvent, event); err != nil {
			slog.Warn("unable to post trade event", "error", err)
		}
	}
}

func (e *Engine) notify() {
	e.listenersMu.Lock()
	listeners := make([]func(), 0, len(e.listeners))
	for _, listener := range e.listeners {
		listeners = append(listeners, listener)
	}
	e.listenersMu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}

// Subscribe registers a listener invoked after every committed mutation.
// The returned function unsubscribes.
func (e *Engine) Subscribe(listener func()) func() {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()

	id := e.listenerSeq
	e.listenerSeq++
	e.listeners[id] = listener

	return func() {
		e.listenersMu.Lock()
		defer e.listenersMu.Unlock()
		delete(e.listeners, id)
	}
}

// Orders returns a most-recent-first snapshot of every order this session.
func (e *Engine) Orders() []common.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]common.Order, 0, len(e.orders))
	for i := len(e.orders) - 1; i >= 0; i-- {
		out = append(out, *e.orders[i])
	}
	return out
}

// Positions returns open positions sorted by symbol for stable output.
func (e *Engine) Positions() []common.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]common.Position, 0, len(e.positions))
	for _, position := range e.positions {
		out = append(out, *position)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (e *Engine) OpenPosition(symbol string) (common.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	position, ok := e.positions[strings.ToUpper(symbol)]
	if !ok {
		return common.Position{}, false
	}
	return *position, true
}

// Events returns the bounded audit feed, most recent first.
func (e *Engine) Events() []common.TradeEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.Snapshot()
}

func (e *Engine) Account() common.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account(e.clock())
}

func (e *Engine) LastTick(symbol string) (common.Tick, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tick, ok := e.lastTicks[strings.ToUpper(symbol)]
	return tick, ok
}

func snapshotOrder(order *common.Order) *common.Order {
	copied := *order
	return &copied
}

func snapshotPosition(position *common.Position) *common.Position {
	copied := *position
	copied.OrderIds = append([]utility.TraceID(nil), position.OrderIds...)
	return &copied
}
