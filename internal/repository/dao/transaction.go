package dao

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txKey struct{}

// Transaction runs fn inside a single database transaction. Every RaffleDAO
// call made with the context handed to fn joins that transaction. Returning an
// error from fn rolls everything back.
func (d *RaffleDAO) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	tx := d.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("db.Begin -> %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return multierr.Append(err, fmt.Errorf("tx.Rollback -> %w", rbErr))
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("tx.Commit -> %w", err)
	}

	return nil
}

func (d *RaffleDAO) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}
