package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huckster/internal/arbitrage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDuplicateArbitrage = errors.New("duplicate arbitrage")

// InsertArbitrage writes the arbitrage row and its legs in one transaction.
func (p *Client) InsertArbitrage(ctx context.Context, record *ArbitrageRecord) error {
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(record)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id=%s", ErrDuplicateArbitrage, record.ID)
		}

		if len(record.Orders) == 0 {
			return nil
		}
		for i := range record.Orders {
			record.Orders[i].ArbitrageID = record.ID
		}
		return tx.Create(&record.Orders).Error
	})
}

// Save persists an approved arbitrage.
func (p *Client) Save(ctx context.Context, a arbitrage.Arbitrage) error {
	return p.InsertArbitrage(ctx, ToArbitrageRecord(a))
}

func (p *Client) GetArbitrage(ctx context.Context, id string) (*ArbitrageRecord, error) {
	var record ArbitrageRecord
	err := p.DB.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("leg_index") }).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListArbitrages returns arbitrages found at or after since, newest first.
func (p *Client) ListArbitrages(ctx context.Context, since time.Time, limit int) ([]ArbitrageRecord, error) {
	var records []ArbitrageRecord
	q := p.DB.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("leg_index") }).
		Where(clause.Gte{Column: "timestamp", Value: since}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true})
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteOldArbitrages removes arbitrages found before the cutoff together with their legs.
func (p *Client) DeleteOldArbitrages(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&ArbitrageRecord{}).Select("id").Where(clause.Lt{Column: "timestamp", Value: before})
		if err := tx.Where("arbitrage_id IN (?)", old).Delete(&ArbitrageOrderRecord{}).Error; err != nil {
			return err
		}
		return tx.Where(clause.Lt{Column: "timestamp", Value: before}).Delete(&ArbitrageRecord{}).Error
	})
}

func ToArbitrageRecord(a arbitrage.Arbitrage) *ArbitrageRecord {
	id := a.ID.String()
	orders := make([]ArbitrageOrderRecord, 0, len(a.Orders))
	for i, o := range a.Orders {
		orders = append(orders, ArbitrageOrderRecord{
			ArbitrageID: id,
			Index:       i,
			Side:        string(o.Side),
			Symbol:      o.Symbol,
			Price:       o.Price,
		})
	}
	return &ArbitrageRecord{
		ID:        id,
		Timestamp: a.Timestamp.UTC(),
		Profit:    a.Profit,
		Orders:    orders,
	}
}
