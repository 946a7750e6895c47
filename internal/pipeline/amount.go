package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/claimtrack/internal/model"
)

// Stream names used in ParseError.
const (
	StreamClaims   = "claims"
	StreamPayments = "payments"
)

// Errors returned by ParseAmount.
var (
	ErrEmptyAmount      = errors.New("empty amount")
	ErrAmountOutOfRange = errors.New("amount exponent out of range")
)

// maxAmountExponent bounds the decimal exponent ParseAmount accepts. Adding
// decimals rescales to the smaller exponent, so an unbounded "1e50000000"
// would expand into a fifty-million-digit integer on the first sum.
const maxAmountExponent = 28

// ParseError identifies the record that stopped aggregation.
type ParseError struct {
	Stream string // StreamClaims or StreamPayments
	Index  int    // position within the stream
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s[%d].%s: cannot parse %q: %v", e.Stream, e.Index, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseAmount is the single numeric coercion point for raw amounts.
// Surrounding whitespace is ignored; anything else that is not a decimal
// number is rejected rather than turned into zero.
func ParseAmount(raw model.RawAmount) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, ErrAmountOutOfRange
	}
	return d, nil
}
