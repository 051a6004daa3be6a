package main

import (
	"fmt"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/config"
)

// catalog is the immutable plant configuration shared by every service
type catalog struct {
	units       *inventory.UnitConversionTable
	bom         *inventory.BillOfMaterials
	policies    inventory.LedgerPolicies
	idempotency shared.IdempotencyConfig
}

// buildCatalog turns the [catalog] and [ledger] sections into domain tables.
// Empty catalog sections keep the built-in tables.
func buildCatalog(cfg *config.Config) (*catalog, error) {
	unitEntries := inventory.DefaultUnitEntries()
	if len(cfg.Catalog.Units) > 0 {
		unitEntries = make([]inventory.UnitEntry, 0, len(cfg.Catalog.Units))
		for _, u := range cfg.Catalog.Units {
			unitEntries = append(unitEntries, inventory.UnitEntry{
				Item:          u.Item,
				PiecesPerUnit: u.PiecesPerUnit,
				Label:         u.Label,
			})
		}
	}
	units, err := inventory.NewUnitConversionTable(unitEntries)
	if err != nil {
		return nil, fmt.Errorf("catalog.units: %w", err)
	}

	bomEntries := inventory.DefaultBOMEntries()
	if len(cfg.Catalog.Products) > 0 {
		bomEntries = make([]inventory.BOMEntry, 0, len(cfg.Catalog.Products))
		for _, p := range cfg.Catalog.Products {
			bomEntries = append(bomEntries, inventory.BOMEntry{Product: p.Name, Materials: p.Materials})
		}
	}
	bom, err := inventory.NewBillOfMaterials(bomEntries)
	if err != nil {
		return nil, fmt.Errorf("catalog.products: %w", err)
	}

	defaults := inventory.DefaultLedgerPolicies()
	missing, err := inventory.ParseMissingMaterialPolicy(cfg.Ledger.MissingMaterialPolicy)
	if err != nil {
		return nil, fmt.Errorf("ledger.missing_material_policy: %w", err)
	}
	raw, err := inventory.ParseShortfallPolicy(cfg.Ledger.RawShortfallPolicy, defaults.RawShortfall)
	if err != nil {
		return nil, fmt.Errorf("ledger.raw_shortfall_policy: %w", err)
	}
	sales, err := inventory.ParseShortfallPolicy(cfg.Ledger.SalesShortfallPolicy, defaults.SalesShortfall)
	if err != nil {
		return nil, fmt.Errorf("ledger.sales_shortfall_policy: %w", err)
	}

	idem := shared.DefaultIdempotencyConfig()
	idem.Enabled = cfg.Ledger.IdempotencyEnabled
	if cfg.Ledger.IdempotencyTTL > 0 {
		idem.TTL = cfg.Ledger.IdempotencyTTL
	}

	return &catalog{
		units: units,
		bom:   bom,
		policies: inventory.LedgerPolicies{
			MissingMaterial: missing,
			RawShortfall:    raw,
			SalesShortfall:  sales,
		},
		idempotency: idem,
	}, nil
}
