package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTargetNotFound  = errors.New("target not found")
	ErrSelfRelation    = errors.New("relation with self is not allowed")
	ErrRelationExists  = errors.New("relation already exists")
	ErrRelationMissing = errors.New("relation does not exist")
)

// Side says which end of an edge owns a counter.
type Side int

const (
	SideTarget Side = iota
	SideSubject
)

// Counter is a denormalized count kept on Table.Column for the row whose id
// is the edge's subject or target.
type Counter struct {
	Table  string
	Column string
	Side   Side
}

// RelationSpec describes one edge table: which columns form the natural key,
// which table the target lives in, and which counters mirror its cardinality.
type RelationSpec struct {
	Name          string
	Table         string
	SubjectColumn string
	TargetColumn  string
	TargetTable   string
	ForbidSelf    bool
	Counters      []Counter
}

// ToggleResult is the engagement state after the call and the target side counter.
type ToggleResult struct {
	Engaged bool  `json:"engaged"`
	Count   int64 `json:"count"`
}

// RelationDAO implements toggle/engage/disengage once for every edge table.
// E is the gorm model for the edge; build fills its natural key.
type RelationDAO[E any] struct {
	Repo[E]
	Spec  RelationSpec
	build func(subjectID, targetID int64) *E
}

func NewRelationDAO[E any](db *gorm.DB, spec RelationSpec, build func(subjectID, targetID int64) *E) *RelationDAO[E] {
	return &RelationDAO[E]{Repo: NewRepo[E](db), Spec: spec, build: build}
}

// Toggle deletes the edge when present and creates it otherwise. The edge and
// its counters change in one transaction; concurrent creates for the same pair
// collapse on the unique key.
func (d *RelationDAO[E]) Toggle(ctx context.Context, subjectID, targetID int64) (*ToggleResult, error) {
	var res ToggleResult
	err := d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.precheck(tx, subjectID, targetID); err != nil {
			return err
		}

		deleted, err := d.delete(tx, subjectID, targetID)
		if err != nil {
			return err
		}
		if deleted {
			if err := d.adjust(tx, subjectID, targetID, -1); err != nil {
				return err
			}
		} else {
			created, err := d.create(tx, subjectID, targetID)
			if err != nil {
				return err
			}
			if created {
				if err := d.adjust(tx, subjectID, targetID, 1); err != nil {
					return err
				}
			}
			res.Engaged = true
		}

		res.Count, err = d.targetCount(tx, subjectID, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Engage creates the edge or fails with ErrRelationExists.
func (d *RelationDAO[E]) Engage(ctx context.Context, subjectID, targetID int64) (*ToggleResult, error) {
	return d.EngageTx(d.Db.WithContext(ctx), subjectID, targetID)
}

// EngageTx is Engage inside a caller-owned transaction.
func (d *RelationDAO[E]) EngageTx(db *gorm.DB, subjectID, targetID int64) (*ToggleResult, error) {
	res := ToggleResult{Engaged: true}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := d.precheck(tx, subjectID, targetID); err != nil {
			return err
		}
		created, err := d.create(tx, subjectID, targetID)
		if err != nil {
			return err
		}
		if !created {
			return ErrRelationExists
		}
		if err := d.adjust(tx, subjectID, targetID, 1); err != nil {
			return err
		}
		res.Count, err = d.targetCount(tx, subjectID, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Disengage removes the edge or fails with ErrRelationMissing.
func (d *RelationDAO[E]) Disengage(ctx context.Context, subjectID, targetID int64) (*ToggleResult, error) {
	return d.DisengageTx(d.Db.WithContext(ctx), subjectID, targetID)
}

func (d *RelationDAO[E]) DisengageTx(db *gorm.DB, subjectID, targetID int64) (*ToggleResult, error) {
	var res ToggleResult
	err := db.Transaction(func(tx *gorm.DB) error {
		deleted, err := d.delete(tx, subjectID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrRelationMissing
		}
		if err := d.adjust(tx, subjectID, targetID, -1); err != nil {
			return err
		}
		res.Count, err = d.targetCount(tx, subjectID, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (d *RelationDAO[E]) Exists(ctx context.Context, subjectID, targetID int64) (bool, error) {
	return d.IsExist(ctx, d.pairWhere(), subjectID, targetID)
}

func (d *RelationDAO[E]) CountBySubject(ctx context.Context, subjectID int64) (int64, error) {
	return d.FindCount(ctx, d.Spec.SubjectColumn+" = ?", subjectID)
}

func (d *RelationDAO[E]) CountByTarget(ctx context.Context, targetID int64) (int64, error) {
	return d.FindCount(ctx, d.Spec.TargetColumn+" = ?", targetID)
}

// TargetIDs pages through what subject is engaged with, newest first.
func (d *RelationDAO[E]) TargetIDs(ctx context.Context, subjectID int64, page, size int) ([]int64, int64, error) {
	return d.ids(ctx, d.Spec.SubjectColumn, d.Spec.TargetColumn, subjectID, page, size)
}

// SubjectIDs pages through who is engaged with target, newest first.
func (d *RelationDAO[E]) SubjectIDs(ctx context.Context, targetID int64, page, size int) ([]int64, int64, error) {
	return d.ids(ctx, d.Spec.TargetColumn, d.Spec.SubjectColumn, targetID, page, size)
}

// EngagedTargets filters targetIDs down to the ones subject is engaged with.
func (d *RelationDAO[E]) EngagedTargets(ctx context.Context, subjectID int64, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIDs))
	if subjectID == 0 || len(targetIDs) == 0 {
		return out, nil
	}
	var hits []int64
	err := d.Model(ctx).
		Where(d.Spec.SubjectColumn+" = ? AND "+d.Spec.TargetColumn+" IN ?", subjectID, targetIDs).
		Pluck(d.Spec.TargetColumn, &hits).Error
	if err != nil {
		return nil, err
	}
	for _, id := range hits {
		out[id] = true
	}
	return out, nil
}

// Edges returns the newest edges of subject, at most limit.
func (d *RelationDAO[E]) Edges(ctx context.Context, subjectID int64, limit int) ([]*E, error) {
	items := make([]*E, 0, limit)
	err := d.Model(ctx).
		Where(d.Spec.SubjectColumn+" = ?", subjectID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (d *RelationDAO[E]) ids(ctx context.Context, whereCol, pluckCol string, id int64, page, size int) ([]int64, int64, error) {
	q := d.Model(ctx).Where(whereCol+" = ?", id)
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, size)
	if total == 0 {
		return ids, 0, nil
	}
	err := q.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Offset((page-1)*size).
		Limit(size).
		Pluck(pluckCol, &ids).Error
	return ids, total, err
}

func (d *RelationDAO[E]) pairWhere() string {
	return d.Spec.SubjectColumn + " = ? AND " + d.Spec.TargetColumn + " = ?"
}

func (d *RelationDAO[E]) precheck(tx *gorm.DB, subjectID, targetID int64) error {
	if d.Spec.ForbidSelf && subjectID == targetID {
		return ErrSelfRelation
	}

	// Rows whose counters change are locked in id order so two opposite
	// follows cannot deadlock. SQLite serializes writers and has no FOR UPDATE.
	lockIDs := []int64{targetID}
	for _, c := range d.Spec.Counters {
		if c.Side == SideSubject && c.Table == d.Spec.TargetTable && subjectID != targetID {
			lockIDs = append(lockIDs, subjectID)
			break
		}
	}
	q := tx.Table(d.Spec.TargetTable).Where("id IN ?", lockIDs).Order("id")
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var found []int64
	if err := q.Pluck("id", &found).Error; err != nil {
		return err
	}
	for _, id := range found {
		if id == targetID {
			return nil
		}
	}
	return ErrTargetNotFound
}

func (d *RelationDAO[E]) delete(tx *gorm.DB, subjectID, targetID int64) (bool, error) {
	res := tx.Where(d.pairWhere(), subjectID, targetID).Delete(new(E))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *RelationDAO[E]) create(tx *gorm.DB, subjectID, targetID int64) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(d.build(subjectID, targetID))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *RelationDAO[E]) adjust(tx *gorm.DB, subjectID, targetID, delta int64) error {
	for _, c := range d.Spec.Counters {
		id := targetID
		if c.Side == SideSubject {
			id = subjectID
		}
		if err := AdjustCounter(tx, c.Table, c.Column, id, delta); err != nil {
			return fmt.Errorf("%s: adjust %s.%s: %w", d.Spec.Name, c.Table, c.Column, err)
		}
	}
	return nil
}

// targetCount reads the first target side counter, or the edge cardinality
// when the relation keeps no counter on the target.
func (d *RelationDAO[E]) targetCount(tx *gorm.DB, subjectID, targetID int64) (int64, error) {
	for _, c := range d.Spec.Counters {
		if c.Side == SideTarget {
			return ReadCounter(tx, c.Table, c.Column, targetID)
		}
	}
	var n int64
	err := tx.Model(new(E)).Where(d.Spec.TargetColumn+" = ?", targetID).Count(&n).Error
	return n, err
}

// AdjustCounter is a single atomic statement that never drops below zero.
func AdjustCounter(tx *gorm.DB, table, column string, id, delta int64) error {
	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", column, column), delta, delta)
	return tx.Table(table).Where("id = ?", id).UpdateColumn(column, expr).Error
}

func ReadCounter(tx *gorm.DB, table, column string, id int64) (int64, error) {
	var n int64
	err := tx.Table(table).Select(column).Where("id = ?", id).Row().Scan(&n)
	return n, err
}
