package domain

import (
	"fmt"
	"strings"
)

// Signal es la decisión de la estrategia para una fecha.
type Signal int

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

// String implementa fmt.Stringer.
func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// IsTrade devuelve true si la señal abre una posición.
func (s Signal) IsTrade() bool {
	return s != SignalHold
}

// ParseSignal es la inversa de String. Acepta también -1/0/1.
func ParseSignal(s string) (Signal, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "1":
		return SignalBuy, nil
	case "SELL", "-1":
		return SignalSell, nil
	case "HOLD", "0", "":
		return SignalHold, nil
	}
	return SignalHold, fmt.Errorf("unknown signal %q", s)
}
