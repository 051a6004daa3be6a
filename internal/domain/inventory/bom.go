package inventory

import (
	"slices"
	"strings"

	"github.com/bottling/backend/internal/domain/shared"
)

// BOMEntry lists the raw materials one piece of a product consumes, in deduction order
type BOMEntry struct {
	Product   string
	Materials []string
}

// BillOfMaterials is an immutable product -> materials lookup
type BillOfMaterials struct {
	products  []string
	materials map[string][]string
	names     map[string]string // folded -> configured spelling
}

// NewBillOfMaterials builds a BOM table. Product order is preserved.
func NewBillOfMaterials(entries []BOMEntry) (*BillOfMaterials, error) {
	b := &BillOfMaterials{
		products:  make([]string, 0, len(entries)),
		materials: make(map[string][]string, len(entries)),
		names:     make(map[string]string),
	}
	for _, e := range entries {
		product := strings.TrimSpace(e.Product)
		if product == "" {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "BOM product cannot be empty")
		}
		if _, dup := b.materials[product]; dup {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "BOM product %q configured twice", product)
		}
		mats := make([]string, 0, len(e.Materials))
		for _, m := range e.Materials {
			m = strings.TrimSpace(m)
			if m == "" {
				return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "BOM for %q has an empty material", product)
			}
			mats = append(mats, m)
			b.remember(m)
		}
		b.products = append(b.products, product)
		b.materials[product] = mats
		b.names[FoldName(product)] = product
	}
	return b, nil
}

// DefaultBOMEntries is the bottling plant catalogue
func DefaultBOMEntries() []BOMEntry {
	return []BOMEntry{
		{Product: "350ml", Materials: []string{"Plastic Bottle (350ml)", "Blue Plastic Cap", "Label"}},
		{Product: "500ml", Materials: []string{"Plastic Bottle (500ml)", "Blue Plastic Cap", "Label"}},
		{Product: "1L", Materials: []string{"Plastic Bottle (1L)", "Blue Plastic Cap", "Label"}},
		{Product: "6L", Materials: []string{"Plastic Gallon (6L)", "Blue Plastic Cap (6L)", "Label"}},
	}
}

// DefaultBillOfMaterials returns the built-in BOM
func DefaultBillOfMaterials() *BillOfMaterials {
	b, _ := NewBillOfMaterials(DefaultBOMEntries())
	return b
}

// MaterialsFor returns the ordered materials of product
func (b *BillOfMaterials) MaterialsFor(product string) ([]string, bool) {
	mats, ok := b.materials[strings.TrimSpace(product)]
	if !ok {
		return nil, false
	}
	return slices.Clone(mats), true
}

// IsProduct reports whether product has a BOM
func (b *BillOfMaterials) IsProduct(product string) bool {
	_, ok := b.materials[strings.TrimSpace(product)]
	return ok
}

// Products returns product names in configured order
func (b *BillOfMaterials) Products() []string {
	return slices.Clone(b.products)
}

// RawMaterials returns every material referenced by the BOM, first appearance first
func (b *BillOfMaterials) RawMaterials() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range b.products {
		for _, m := range b.materials[p] {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// Canonical returns the configured spelling of a product or material name,
// matching ignoring case. Unknown names come back trimmed with false.
func (b *BillOfMaterials) Canonical(name string) (string, bool) {
	if b == nil {
		return strings.TrimSpace(name), false
	}
	if c, ok := b.names[FoldName(name)]; ok {
		return c, true
	}
	return strings.TrimSpace(name), false
}

// a product name wins over a material spelled the same way
func (b *BillOfMaterials) remember(material string) {
	key := FoldName(material)
	if _, ok := b.names[key]; !ok {
		b.names[key] = material
	}
}
