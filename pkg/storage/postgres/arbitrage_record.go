package postgres

import "time"

// ArbitrageRecord is an approved arbitrage as stored in the database.
type ArbitrageRecord struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Timestamp time.Time `gorm:"not null;index:idx_arbitrage_timestamp"`
	Profit    float64   `gorm:"type:numeric;not null"`

	Orders []ArbitrageOrderRecord `gorm:"foreignKey:ArbitrageID;references:ID;constraint:OnDelete:CASCADE"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (ArbitrageRecord) TableName() string {
	return "arbitrages"
}

// ArbitrageOrderRecord is one leg of an arbitrage. Index is the execution order, starting at 0.
type ArbitrageOrderRecord struct {
	ArbitrageID string  `gorm:"type:varchar(36);primaryKey"`
	Index       int     `gorm:"column:leg_index;primaryKey;autoIncrement:false"`
	Side        string  `gorm:"type:varchar(4);not null"`
	Symbol      string  `gorm:"type:text;not null;index:idx_arbitrage_order_symbol"`
	Price       float64 `gorm:"type:numeric;not null"`
}

func (ArbitrageOrderRecord) TableName() string {
	return "arbitrage_orders"
}
