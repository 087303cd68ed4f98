package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo is the generic table accessor embedded by every DAO.
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

func (r *Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Db.WithContext(ctx).Model(new(T))
}

// FindById returns gorm.ErrRecordNotFound when the row is missing.
func (r *Repo[T]) FindById(ctx context.Context, id any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindByIds(ctx context.Context, ids []int64) ([]*T, error) {
	items := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := r.Db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).Where(where, args...).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindAll(ctx context.Context, where string, args ...any) ([]*T, error) {
	items := make([]*T, 0)
	err := r.Db.WithContext(ctx).Where(where, args...).Find(&items).Error
	return items, err
}

func (r *Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	err := r.Db.WithContext(ctx).Model(new(T)).Where(where, args...).Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repo[T]) FindCount(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Db.WithContext(ctx).Model(new(T)).Where(where, args...).Count(&count).Error
	return count, err
}

func (r *Repo[T]) Create(ctx context.Context, item *T) error {
	return r.Db.WithContext(ctx).Create(item).Error
}

// UpdateById updates the given columns and reports how many rows changed.
func (r *Repo[T]) UpdateById(ctx context.Context, id any, data map[string]any) (int64, error) {
	res := r.Db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(data)
	return res.RowsAffected, res.Error
}

// Page is a limit/offset window with a total count.
type Page[T any] struct {
	Items []*T
	Total int64
}

// Paginate runs query twice: once for the total and once for the requested window.
func Paginate[T any](query *gorm.DB, page, size int, order string) (*Page[T], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	items := make([]*T, 0, size)
	if total > 0 {
		err := query.Session(&gorm.Session{}).
			Order(order).
			Offset((page - 1) * size).
			Limit(size).
			Find(&items).Error
		if err != nil {
			return nil, err
		}
	}
	return &Page[T]{Items: items, Total: total}, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
