package models

// All returns one zero value of every ledger model in dependency order
func All() []any {
	return []any{
		&StockItemModel{},
		&SupplierModel{},
		&RawMaterialLotModel{},
		&SupplierOfferModel{},
		&LedgerEventModel{},
		&ProductionOutputModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&PurchaseReceiptModel{},
		&SalesOrderModel{},
		&SalesOrderItemModel{},
		&ReturnToVendorModel{},
		&ReturnItemModel{},
	}
}
