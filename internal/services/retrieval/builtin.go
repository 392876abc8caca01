package retrieval

import "github.com/junlennon0516/DongSeo-WebProject/internal/domain"

// BuiltinCatalog is the small offline catalog used in tolerant mode. Ids match
// the seeded store so prices resolve once it is reachable again.
func BuiltinCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{ID: 1, CompanyID: 1, Name: "ABS 민자 도어", BasePrice: 100000, Category: "도어", Company: "동서", Size: "900x2100", Description: "ABS flat door"},
		{ID: 2, CompanyID: 1, Name: "ABS 루바 도어", BasePrice: 115000, Category: "도어", Company: "동서", Size: "900x2100", Description: "ABS louver door"},
		{ID: 10, CompanyID: 1, Name: "목재 3연동 중문", BasePrice: 0, Category: "중문", Company: "동서", Description: "wood 3-panel interlocking sliding door"},
		{ID: 20, CompanyID: 1, Name: "간살 목창호", BasePrice: 0, Category: "창호", Company: "동서", Description: "wood lattice window"},
		{ID: 30, CompanyID: 1, Name: "PVC 발포문틀", BasePrice: 0, Category: "문틀", Company: "동서", Description: "PVC foam door frame"},
		{ID: 40, CompanyID: 1, Name: "디지털 도어락", BasePrice: 180000, Category: "하드웨어", Company: "동서", Description: "digital door lock"},
	}
}
