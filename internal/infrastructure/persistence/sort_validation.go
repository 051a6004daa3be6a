package persistence

import (
	"errors"
	"strings"

	"github.com/bottling/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"quantity_grouped": true,
	"quantity_pieces":  true,
}

// LotSortFields contains allowed sort fields for raw material lots
var LotSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"material":         true,
	"supplier_name":    true,
	"quantity_grouped": true,
	"quantity_pieces":  true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// ProductionSortFields contains allowed sort fields for production outputs
var ProductionSortFields = map[string]bool{
	"created_at":      true,
	"batch_number":    true,
	"product_name":    true,
	"quantity_pcs":    true,
	"production_date": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"po_number":     true,
	"supplier_name": true,
	"order_date":    true,
	"expected_date": true,
	"status":        true,
	"amount":        true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"order_number":  true,
	"customer_name": true,
	"order_date":    true,
	"amount":        true,
}

// ReturnSortFields contains allowed sort fields for returns to vendor
var ReturnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"rtv_number":    true,
	"customer_name": true,
	"date_ordered":  true,
	"status":        true,
}

// applyPage orders and paginates query. Unknown sort fields fall back to defaultField.
func applyPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// notFound maps gorm.ErrRecordNotFound to the given domain error
func notFound(err error, target *shared.DomainError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// likePattern builds a case-insensitive contains pattern
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// isCode reports whether err is a domain error carrying code
func isCode(err error, code string) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == code
}
