package battleship

import (
	cerr "github.com/saeidalz13/armada/internal/error"
)

// CatalogItem is a ship that can be bought during a turn.
type CatalogItem struct {
	Tier  int `json:"tier"`
	Size  int `json:"size"`
	Price int `json:"price"`
}

var catalog = map[int]CatalogItem{
	1: {Tier: 1, Size: 1, Price: 100},
	2: {Tier: 2, Size: 2, Price: 200},
	3: {Tier: 3, Size: 3, Price: 300},
}

func LookupCatalog(tier int) (CatalogItem, error) {
	item, prs := catalog[tier]
	if !prs {
		return CatalogItem{}, cerr.ErrInvalidPurchaseTier(tier)
	}
	return item, nil
}
