package exchange

import (
	"errors"
	"fmt"
	"strings"

	"papertrade/pkg/utility/fixed"
)

var (
	ErrSymbolNotPresent = errors.New("symbol is not present in symbol table")
)

type SymbolStore struct {
	symbols []SymbolInfo
}

func CreateSymbolStore(symbols ...SymbolInfo) SymbolStore {
	return SymbolStore{
		symbols: symbols,
	}
}

func (s SymbolStore) Contains(symbolName string) bool {
	if _, err := s.Get(symbolName); err != nil {
		return false
	}
	return true
}

func (s SymbolStore) Get(symbolName string) (SymbolInfo, error) {
	for _, symbol := range s.symbols {
		if strings.EqualFold(symbol.SymbolName, symbolName) {
			return symbol, nil
		}
	}
	return SymbolInfo{}, fmt.Errorf("unable to get symbol with name %s: %w", symbolName, ErrSymbolNotPresent)
}

func (s SymbolStore) MustGet(symbolName string) SymbolInfo {
	symbol, err := s.Get(symbolName)
	if err != nil {
		panic(err.Error())
	}
	return symbol
}

func (s SymbolStore) All() []SymbolInfo {
	out := make([]SymbolInfo, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// CreateDefaultSymbolStore returns the four instruments the simulator trades.
func CreateDefaultSymbolStore() SymbolStore {
	return CreateSymbolStore(
		SymbolInfo{
			SymbolName:     "EURUSD",
			Class:          Forex,
			QuoteCurrency:  "USD",
			Digits:         5,
			PipSize:        fixed.FromFloat64(0.0001),
			PipValuePerLot: fixed.FromInt(10, 0),
			BasePrice:      fixed.FromFloat64(1.0840),
			StepSize:       fixed.FromFloat64(0.0006),
			TypicalSpread:  fixed.FromFloat64(0.00012),
		},
		SymbolInfo{
			SymbolName:     "GBPUSD",
			Class:          Forex,
			QuoteCurrency:  "USD",
			Digits:         5,
			PipSize:        fixed.FromFloat64(0.0001),
			PipValuePerLot: fixed.FromInt(10, 0),
			BasePrice:      fixed.FromFloat64(1.2710),
			StepSize:       fixed.FromFloat64(0.0008),
			TypicalSpread:  fixed.FromFloat64(0.00018),
		},
		SymbolInfo{
			SymbolName:     "USDJPY",
			Class:          Forex,
			QuoteCurrency:  "JPY",
			Digits:         3,
			PipSize:        fixed.FromFloat64(0.01),
			PipValuePerLot: fixed.FromFloat64(6.7),
			BasePrice:      fixed.FromFloat64(149.50),
			StepSize:       fixed.FromFloat64(0.08),
			TypicalSpread:  fixed.FromFloat64(0.016),
		},
		SymbolInfo{
			SymbolName:     "XAUUSD",
			Class:          Metal,
			QuoteCurrency:  "USD",
			Digits:         2,
			PipSize:        fixed.FromFloat64(0.1),
			PipValuePerLot: fixed.FromInt(10, 0),
			BasePrice:      fixed.FromFloat64(2345.00),
			StepSize:       fixed.FromFloat64(1.8),
			TypicalSpread:  fixed.FromFloat64(0.35),
		},
	)
}
