package inventory

import (
	"slices"
	"strings"

	"github.com/bottling/backend/internal/domain/shared"
)

// SupplierResolver picks the supplier lot a BOM material is drawn from
type SupplierResolver struct{}

// NewSupplierResolver creates a resolver
func NewSupplierResolver() SupplierResolver {
	return SupplierResolver{}
}

// CompareOffers orders offers by price, then supplier name ignoring case, then supplier ID
func CompareOffers(a, b SupplierOffer) int {
	if c := a.Price.Cmp(b.Price); c != 0 {
		return c
	}
	if c := strings.Compare(FoldName(a.SupplierName), FoldName(b.SupplierName)); c != 0 {
		return c
	}
	return strings.Compare(a.SupplierID.String(), b.SupplierID.String())
}

// Rank returns the offers for material sorted best first.
// Materials match ignoring case.
func (SupplierResolver) Rank(material string, offers []SupplierOffer) []SupplierOffer {
	want := FoldName(material)
	ranked := make([]SupplierOffer, 0, len(offers))
	for _, o := range offers {
		if FoldName(o.Material) == want {
			ranked = append(ranked, o)
		}
	}
	slices.SortStableFunc(ranked, CompareOffers)
	return ranked
}

// Resolve returns the supplier name for material.
// A non-empty override is used verbatim; its lot is checked when it is locked.
func (r SupplierResolver) Resolve(material, override string, offers []SupplierOffer) (string, error) {
	if o := strings.TrimSpace(override); o != "" {
		return o, nil
	}
	ranked := r.Rank(material, offers)
	if len(ranked) == 0 {
		return "", shared.NewDomainErrorf(shared.CodeNoSupplierAvailable, "No supplier offer available for %s", material)
	}
	return ranked[0].SupplierName, nil
}
