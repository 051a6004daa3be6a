// Package models contains GORM persistence models that map to database tables.
// They are separate from domain entities so the domain layer stays free of ORM tags.
//
// Structure:
//   - base.go: BaseModel and AggregateModel
//   - inventory.go: stock items, raw material lots, suppliers, offers, ledger events
//   - production.go: production outputs
//   - trade.go: purchase orders, receipts, sales orders, returns to vendor
//   - registry.go: the model list used by AutoMigrate
package models
