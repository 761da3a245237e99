package paper

import (
	"time"

	"papertrade/pkg/common"
	"papertrade/pkg/exchange"
	"papertrade/pkg/utility"
	"papertrade/pkg/utility/fixed"
)

// executionPrice is the side of the book a taker crosses: a BUY lifts the
// ask, a SELL hits the bid.
func (e *Engine) executionPrice(info exchange.SymbolInfo, tick common.Tick, side common.OrderSide) fixed.Point {
	if side == common.OrderSideBuy {
		return info.Round(tick.Ask)
	}
	return info.Round(tick.Bid)
}

// closablePrice is the opposite leg, the price an open position could exit
// at right now. Longs close on the bid, shorts on the ask. It doubles as the
// mark price for unrealized P/L.
func closablePrice(side common.OrderSide, tick common.Tick) fixed.Point {
	if side == common.OrderSideBuy {
		return tick.Bid
	}
	return tick.Ask
}

// fill transitions an order to FILLED, resolves its protective pip offsets
// into absolute prices and nets the fill into the symbol's position.
func (e *Engine) fill(info exchange.SymbolInfo, order *common.Order, fillPrice fixed.Point, at time.Time) {
	order.Status = common.OrderStatusFilled
	order.FilledPrice = fillPrice
	order.FilledAt = at

	if order.StopLossPips.IsPos() {
		offset := order.StopLossPips.Mul(info.PipSize)
		if order.Side == common.OrderSideBuy {
			order.StopLoss = info.Round(fillPrice.Sub(offset))
		} else {
			order.StopLoss = info.Round(fillPrice.Add(offset))
		}
	}
	if order.TakeProfitPips.IsPos() {
		offset := order.TakeProfitPips.Mul(info.PipSize)
		if order.Side == common.OrderSideBuy {
			order.TakeProfit = info.Round(fillPrice.Add(offset))
		} else {
			order.TakeProfit = info.Round(fillPrice.Sub(offset))
		}
	}

	e.applyNetting(info, order, fillPrice, at)

	e.recordEvent(common.TradeEvent{
		Kind:      common.TradeEventOrderFilled,
		Order:     snapshotOrder(order),
		TimeStamp: at,
	})
}

// applyNetting folds a fill into the single net position the engine keeps
// per symbol. Same-side fills average the entry, opposite-side fills offset
// lot for lot: reduce, close exactly, or flip into the remainder.
func (e *Engine) applyNetting(info exchange.SymbolInfo, order *common.Order, fillPrice fixed.Point, at time.Time) {
	position, ok := e.positions[order.Symbol]
	if !ok {
		e.positions[order.Symbol] = &common.Position{
			Id:            order.Id,
			Symbol:        order.Symbol,
			Side:          order.Side,
			Lots:          order.Lots,
			EntryPrice:    fillPrice,
			StopLoss:      order.StopLoss,
			TakeProfit:    order.TakeProfit,
			MarkPrice:     fillPrice,
			UnrealizedPnl: fixed.Zero.Rescale(2),
			OrderIds:      []utility.TraceID{order.Id},
			OpenedAt:      at,
			UpdatedAt:     at,
		}
		return
	}

	position.OrderIds = append(position.OrderIds, order.Id)
	position.UpdatedAt = at

	if position.Side == order.Side {
		// Scale in: entry becomes the lot-weighted average of old and new.
		totalLots := position.Lots.Add(order.Lots)
		weighted := position.EntryPrice.Mul(position.Lots).Add(fillPrice.Mul(order.Lots))
		position.EntryPrice = info.Round(weighted.Div(totalLots))
		position.Lots = totalLots
		if order.StopLoss.IsPos() {
			position.StopLoss = order.StopLoss
		}
		if order.TakeProfit.IsPos() {
			position.TakeProfit = order.TakeProfit
		}
		return
	}

	switch {
	case position.Lots.Gt(order.Lots):
		// Partial close: realize P/L on the offset lots, entry stays put.
		realized := pnl(info, position.Side, position.EntryPrice, fillPrice, order.Lots)
		e.balance = e.balance.Add(realized)
		position.Lots = position.Lots.Sub(order.Lots)
		e.recordEvent(common.TradeEvent{
			Kind:        common.TradeEventPositionClosed,
			Position:    snapshotPosition(position),
			RealizedPnl: realized,
			TimeStamp:   at,
		})

	case position.Lots.Lt(order.Lots):
		// Flip: the whole position closes and the surplus opens the other way.
		realized := pnl(info, position.Side, position.EntryPrice, fillPrice, position.Lots)
		e.balance = e.balance.Add(realized)
		closed := snapshotPosition(position)
		e.recordEvent(common.TradeEvent{
			Kind:        common.TradeEventPositionClosed,
			Position:    closed,
			RealizedPnl: realized,
			TimeStamp:   at,
		})

		position.Id = order.Id
		position.Side = order.Side
		position.Lots = order.Lots.Sub(closed.Lots)
		position.EntryPrice = fillPrice
		position.StopLoss = order.StopLoss
		position.TakeProfit = order.TakeProfit
		position.MarkPrice = fillPrice
		position.UnrealizedPnl = fixed.Zero.Rescale(2)
		position.OrderIds = []utility.TraceID{order.Id}
		position.OpenedAt = at

	default:
		// Exact offset, the position is flat.
		realized := pnl(info, position.Side, position.EntryPrice, fillPrice, position.Lots)
		e.balance = e.balance.Add(realized)
		delete(e.positions, order.Symbol)
		e.recordEvent(common.TradeEvent{
			Kind:        common.TradeEventPositionClosed,
			Position:    snapshotPosition(position),
			RealizedPnl: realized,
			TimeStamp:   at,
		})
	}
}

// closeAt removes a position at the given price and realizes its P/L.
func (e *Engine) closeAt(info exchange.SymbolInfo, position *common.Position, price fixed.Point, at time.Time) {
	realized := pnl(info, position.Side, position.EntryPrice, price, position.Lots)
	e.balance = e.balance.Add(realized)

	position.MarkPrice = price
	position.UnrealizedPnl = realized
	position.UpdatedAt = at
	delete(e.positions, position.Symbol)

	e.recordEvent(common.TradeEvent{
		Kind:        common.TradeEventPositionClosed,
		Position:    snapshotPosition(position),
		RealizedPnl: realized,
		TimeStamp:   at,
	})
}

// protectiveTrigger reports whether the tick crossed the position's stop-loss
// or take-profit, and the level the close executes at. Checks run against the
// closable side of the book. Stop-loss wins when both would trigger.
func protectiveTrigger(position *common.Position, tick common.Tick) (bool, fixed.Point) {
	mark := closablePrice(position.Side, tick)

	if position.IsLong() {
		if position.StopLoss.IsPos() && mark.Lte(position.StopLoss) {
			return true, position.StopLoss
		}
		if position.TakeProfit.IsPos() && mark.Gte(position.TakeProfit) {
			return true, position.TakeProfit
		}
		return false, fixed.Zero
	}

	if position.StopLoss.IsPos() && mark.Gte(position.StopLoss) {
		return true, position.StopLoss
	}
	if position.TakeProfit.IsPos() && mark.Lte(position.TakeProfit) {
		return true, position.TakeProfit
	}
	return false, fixed.Zero
}

// pnl converts a price move into account currency: pips moved times pip
// value per lot times lots, rounded to cents. Shorts profit from a falling
// mark, so the move is negated.
func pnl(info exchange.SymbolInfo, side common.OrderSide, entry, mark, lots fixed.Point) fixed.Point {
	move := mark.Sub(entry)
	if side == common.OrderSideSell {
		move = move.Neg()
	}
	pips := move.Div(info.PipSize)
	return pips.Mul(info.PipValuePerLot).Mul(lots).Rescale(2)
}
