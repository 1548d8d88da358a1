package repository

import (
	"gorm.io/gorm"
)

// notDeleted 软删除过滤，table 为空时使用无前缀列名
func notDeleted(table string) func(*gorm.DB) *gorm.DB {
	col := "is_deleted"
	if table != "" {
		col = table + ".is_deleted"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", false)
	}
}

func paginate(skip, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(skip).Limit(limit)
	}
}

// adjustCounter 计数器加减，减法要求结果不小于 0；返回是否有行被更新
func adjustCounter(db *gorm.DB, m interface{}, id int64, column string, delta int) (bool, error) {
	q := db.Model(m).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(column+" >= ?", -delta)
	}
	result := q.UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
