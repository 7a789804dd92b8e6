package location

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Province struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type District struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProvinceID   string `json:"province_id"`
	ProvinceName string `json:"province_name"`
}

type Neighborhood struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DistrictID   string `json:"district_id"`
	DistrictName string `json:"district_name"`
	ProvinceID   string `json:"province_id"`
	ProvinceName string `json:"province_name"`
}

// Snapshot is a validated province > district > neighborhood chain.
type Snapshot struct {
	Province     Province     `json:"province"`
	District     District     `json:"district"`
	Neighborhood Neighborhood `json:"neighborhood"`
}

// nameNormalizer trims and title-cases names stored in upper case, using
// Turkish casing rules ("İSTANBUL" -> "İstanbul", "KADIKÖY" -> "Kadıköy").
// A caser is stateful, so each load gets its own.
type nameNormalizer struct {
	caser cases.Caser
}

func newNameNormalizer() *nameNormalizer {
	return &nameNormalizer{caser: cases.Title(language.Turkish)}
}

func (n *nameNormalizer) normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return n.caser.String(s)
}
