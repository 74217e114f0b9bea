package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRepository persists each collection as one JSON blob keyed by the
// collection name, mirroring the per-key storage the rest of the system is
// contracted against.
type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

type collectionModel struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Data      []byte    `gorm:"column:data"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (collectionModel) TableName() string { return "collections" }

func (r *CollectionRepository) Migrate() error {
	return r.db.AutoMigrate(&collectionModel{})
}

func (r *CollectionRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var m collectionModel
	tx := r.db.WithContext(ctx).First(&m, "key = ?", key)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if tx.Error != nil {
		return nil, tx.Error
	}
	return m.Data, nil
}

func (r *CollectionRepository) Set(ctx context.Context, key string, data []byte) error {
	m := collectionModel{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&m)
	if tx.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(tx.Error, &pgErr) {
			return fmt.Errorf("collection %q: %s (%s)", key, pgErr.Message, pgErr.Code)
		}
		return tx.Error
	}
	return nil
}
