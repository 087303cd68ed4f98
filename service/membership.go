package service

import (
	"context"
	"errors"
	"fmt"

	"Shutter/dao"
	"Shutter/pkg/utils"
	"Shutter/types"

	"gorm.io/gorm"
)

// changeMembers adds or removes photoIDs to or from targetID in one
// transaction. Photos that do not exist or are already in the requested
// state are skipped rather than failing the batch.
func changeMembers[E any](ctx context.Context, rel *dao.RelationDAO[E], photos *dao.PhotoDAO, targetID int64, photoIDs []types.ID, add bool) (*types.MembershipResp, error) {
	ids := utils.Dedupe(types.IDs(photoIDs))
	out := &types.MembershipResp{}

	present := map[int64]bool{}
	if add {
		rows, err := photos.FindByIds(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load photos: %w", err)
		}
		for _, p := range rows {
			present[p.ID] = true
		}
	}

	db := rel.Db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if add && !present[id] {
				out.Skipped++
				continue
			}
			var err error
			if add {
				_, err = rel.EngageTx(tx, id, targetID)
			} else {
				_, err = rel.DisengageTx(tx, id, targetID)
			}
			switch {
			case err == nil:
				if add {
					out.Added++
				} else {
					out.Removed++
				}
			case errors.Is(err, dao.ErrRelationExists), errors.Is(err, dao.ErrRelationMissing):
				out.Skipped++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range rel.Spec.Counters {
		if c.Side == dao.SideTarget {
			out.Count, err = dao.ReadCounter(db, c.Table, c.Column, targetID)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", c.Column, err)
			}
			break
		}
	}
	return out, nil
}

// memberPhotos pages through the photos filed under targetID, newest membership first.
func memberPhotos[E any](ctx context.Context, rel *dao.RelationDAO[E], photos *dao.PhotoDAO, pr *Presenter, viewerID, targetID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error) {
	page, size := q.Normalize()
	ids, total, err := rel.SubjectIDs(ctx, targetID, page, size)
	if err != nil {
		return nil, fmt.Errorf("member photos: %w", err)
	}
	items, err := photosByIDs(ctx, photos, pr, viewerID, ids)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, total, page, size), nil
}
