package production

import (
	"slices"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// MaterialCost is the cost of one material drawn for one output
type MaterialCost struct {
	Material  string          `json:"material"`
	Supplier  string          `json:"supplier"`
	Quantity  int64           `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// SupplierCost groups material costs by supplier
type SupplierCost struct {
	Supplier  string          `json:"supplier"`
	Materials []MaterialCost  `json:"materials"`
	Total     decimal.Decimal `json:"total"`
}

// OutputCosting is the material cost of one production output
type OutputCosting struct {
	Product        string          `json:"product_name"`
	QuantityPieces int64           `json:"quantity_pcs"`
	Suppliers      []SupplierCost  `json:"suppliers"`
	Total          decimal.Decimal `json:"total"`
}

// BatchCosting is the material cost of a whole batch
type BatchCosting struct {
	BatchNumber string          `json:"batch_number"`
	Outputs     []OutputCosting `json:"outputs"`
	Total       decimal.Decimal `json:"total"`
}

// Costing prices batches against supplier offers
type Costing struct {
	bom      *inventory.BillOfMaterials
	units    *inventory.UnitConversionTable
	resolver inventory.SupplierResolver
}

// NewCosting creates a costing calculator
func NewCosting(bom *inventory.BillOfMaterials, units *inventory.UnitConversionTable) *Costing {
	return &Costing{bom: bom, units: units, resolver: inventory.NewSupplierResolver()}
}

// CostBatch prices every output of batch.
// Each material uses the supplier recorded on the output, falling back to the best offer.
// Skipped materials and materials without any supplier are left out.
// Unit price is per piece rounded to 6 places; totals are rounded to 2.
func (c *Costing) CostBatch(batch *ProductionBatch, offers []inventory.SupplierOffer) BatchCosting {
	result := BatchCosting{BatchNumber: batch.BatchNumber, Total: decimal.Zero}
	for _, out := range batch.Outputs {
		oc := c.costOutput(out, offers)
		result.Outputs = append(result.Outputs, oc)
		result.Total = result.Total.Add(oc.Total)
	}
	return result
}

func (c *Costing) costOutput(out ProductionOutput, offers []inventory.SupplierOffer) OutputCosting {
	oc := OutputCosting{Product: out.Product, QuantityPieces: out.QuantityPieces, Total: decimal.Zero}
	materials, _ := c.bom.MaterialsFor(out.Product)
	qty := decimal.NewFromInt(out.QuantityPieces)

	for _, m := range materials {
		if slices.Contains(out.SkippedMaterials, m) {
			continue
		}
		supplier, ok := out.SupplierSelections[m]
		if !ok || supplier == "" {
			var err error
			supplier, err = c.resolver.Resolve(m, "", offers)
			if err != nil {
				continue
			}
		}

		perPiece := decimal.Zero
		if o, found := findOffer(offers, m, supplier); found {
			perPiece = o.Price.Div(decimal.NewFromInt(int64(c.units.PiecesPerUnit(m))))
		}
		mc := MaterialCost{
			Material:  m,
			Supplier:  supplier,
			Quantity:  out.QuantityPieces,
			UnitPrice: perPiece.Round(6),
			Total:     perPiece.Mul(qty).Round(2),
		}

		idx := slices.IndexFunc(oc.Suppliers, func(s SupplierCost) bool { return s.Supplier == supplier })
		if idx < 0 {
			oc.Suppliers = append(oc.Suppliers, SupplierCost{Supplier: supplier, Total: decimal.Zero})
			idx = len(oc.Suppliers) - 1
		}
		oc.Suppliers[idx].Materials = append(oc.Suppliers[idx].Materials, mc)
		oc.Suppliers[idx].Total = oc.Suppliers[idx].Total.Add(mc.Total)
		oc.Total = oc.Total.Add(mc.Total)
	}
	return oc
}

func findOffer(offers []inventory.SupplierOffer, material, supplier string) (inventory.SupplierOffer, bool) {
	want := inventory.FoldName(supplier)
	for _, o := range offers {
		if o.Material == material && inventory.FoldName(o.SupplierName) == want {
			return o, true
		}
	}
	return inventory.SupplierOffer{}, false
}

// MaterialOption lists the suppliers a BOM material can be drawn from
type MaterialOption struct {
	Material      string                    `json:"material"`
	Suppliers     []inventory.SupplierOffer `json:"suppliers"`
	MultiSupplier bool                      `json:"multi_supplier"`
}

// MaterialOptions returns each material of product with its ranked offers
func (c *Costing) MaterialOptions(product string, offers []inventory.SupplierOffer) ([]MaterialOption, bool) {
	materials, ok := c.bom.MaterialsFor(product)
	if !ok {
		return nil, false
	}
	options := make([]MaterialOption, 0, len(materials))
	for _, m := range materials {
		ranked := c.resolver.Rank(m, offers)
		options = append(options, MaterialOption{
			Material:      m,
			Suppliers:     ranked,
			MultiSupplier: len(ranked) > 1,
		})
	}
	return options, true
}
