package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money columns are numeric(20,4). On sqlite a numeric column keeps the
// value as a REAL, which holds 15 significant digits exactly.
const (
	moneyScale     = 4
	maxMoneyDigits = 15
)

// maxMoney is the first value numeric(20,4) cannot hold.
var maxMoney = decimal.New(1, 20-moneyScale)

// checkMoney rejects amounts the store would round: more than four
// decimals, more than 15 significant digits, or too large for the column.
func checkMoney(what string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(moneyScale)) {
		return fmt.Errorf("%w: %s %s has more than %d decimals", ErrInvalidAmount, what, d, moneyScale)
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		return fmt.Errorf("%w: %s %s is out of range", ErrInvalidAmount, what, d)
	}
	if n := significantDigits(d); n > maxMoneyDigits {
		return fmt.Errorf("%w: %s %s has %d significant digits, max %d", ErrInvalidAmount, what, d, n, maxMoneyDigits)
	}
	return nil
}

func significantDigits(d decimal.Decimal) int {
	if d.IsZero() {
		return 0
	}
	return len(strings.TrimRight(d.Abs().Coefficient().String(), "0"))
}
