package scope

import "gorm.io/gorm"

// ByShop filters on shop_id. An empty id leaves the query unfiltered.
func ByShop(shopID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if shopID == "" {
			return db
		}
		return db.Where("shop_id = ?", shopID)
	}
}

// ByPeriod filters on month and year columns of the given table alias.
func ByPeriod(table string, month, year int) func(db *gorm.DB) *gorm.DB {
	prefix := ""
	if table != "" {
		prefix = table + "."
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(prefix+"month = ? AND "+prefix+"year = ?", month, year)
	}
}

// ByShopOf filters on the shop_id column of the given table alias, for
// queries that join another table with its own shop_id.
func ByShopOf(table, shopID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if shopID == "" {
			return db
		}
		return db.Where(table+".shop_id = ?", shopID)
	}
}
