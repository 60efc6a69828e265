// Package service holds the storefront business rules: shipping quotes,
// coupon validation and redemption, stock adjustment, catalog and login.
package service

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/vaitahavya/morandi-sub002/internal/service")

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// roundMoney rounds to two decimal places (paise).
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
