package storage

import "github.com/shopspring/decimal"

type StockStatus string

const (
	StockOK      StockStatus = "OK"
	StockAlert   StockStatus = "ALERTE"
	StockRupture StockStatus = "RUPTURE"
)

type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	CategoryID     *int64          `json:"category_id"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	Status         StockStatus     `json:"status"`
}

// StockStatusOf derives the stock level of a product: nothing left is a
// rupture, reaching the threshold raises an alert.
func StockStatusOf(quantity, threshold decimal.Decimal) StockStatus {
	switch {
	case quantity.LessThanOrEqual(decimal.Zero):
		return StockRupture
	case quantity.LessThanOrEqual(threshold):
		return StockAlert
	default:
		return StockOK
	}
}

func (p *Product) RefreshStatus() {
	p.Status = StockStatusOf(p.Quantity, p.AlertThreshold)
}
