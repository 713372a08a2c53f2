package workqueue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
)

// Columns names the status bookkeeping columns of a work table.
type Columns struct {
	Status     string
	Message    string
	ClaimToken string
}

// GormStore implements Store over the table of model T.
type GormStore[T any] struct {
	db       *gorm.DB
	cols     Columns
	toItem   func(T) Item
	newToken func() string
}

func NewGormStore[T any](db *gorm.DB, cols Columns, toItem func(T) Item) *GormStore[T] {
	return &GormStore[T]{
		db:       db,
		cols:     cols,
		toItem:   toItem,
		newToken: func() string { return uuid.New().String() },
	}
}

func (s *GormStore[T]) SelectPending(ctx context.Context, limit int) ([]Item, error) {
	var rows []T
	err := s.db.WithContext(ctx).
		Where(s.cols.Status+" = ?", models.WorkStatusPending).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return s.items(rows), nil
}

func (s *GormStore[T]) Claim(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var model T
	return s.db.WithContext(ctx).Model(&model).
		Where("id IN ?", ids).
		Update(s.cols.Status, models.WorkStatusProcessing).Error
}

// ClaimAtomic stamps a fresh claim token on up to limit pending rows with one
// UPDATE, then reads the stamped rows back. The pending filter is repeated on
// the outer UPDATE so a row already taken by a concurrent claim is skipped.
func (s *GormStore[T]) ClaimAtomic(ctx context.Context, limit int) ([]Item, error) {
	var model T
	token := s.newToken()
	db := s.db.WithContext(ctx)

	candidates := db.Model(&model).Select("id").
		Where(s.cols.Status+" = ?", models.WorkStatusPending).
		Limit(limit)
	// MySQL rejects a LIMIT subquery on the updated table unless it is wrapped
	// in a derived table.
	claimable := db.Table("(?) AS claimable", candidates).Select("id")

	err := db.Model(&model).
		Where(s.cols.Status+" = ?", models.WorkStatusPending).
		Where("id IN (?)", claimable).
		Updates(map[string]interface{}{
			s.cols.Status:     models.WorkStatusProcessing,
			s.cols.ClaimToken: token,
		}).Error
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := db.Where(s.cols.ClaimToken+" = ?", token).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read claimed rows: %w", err)
	}
	return s.items(rows), nil
}

func (s *GormStore[T]) MarkFailed(ctx context.Context, id uint, status, message string) error {
	var model T
	return s.db.WithContext(ctx).Model(&model).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			s.cols.Status:  status,
			s.cols.Message: message,
		}).Error
}

// Requeue moves the given rows from processing back to pending and returns
// how many rows changed. Rows in any other status are left alone.
func (s *GormStore[T]) Requeue(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var model T
	res := s.db.WithContext(ctx).Model(&model).
		Where("id IN ?", ids).
		Where(s.cols.Status+" = ?", models.WorkStatusProcessing).
		Updates(map[string]interface{}{
			s.cols.Status:     models.WorkStatusPending,
			s.cols.ClaimToken: "",
		})
	return res.RowsAffected, res.Error
}

// StatusCounts returns the number of rows per status.
func (s *GormStore[T]) StatusCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var model T
	var rows []row
	err := s.db.WithContext(ctx).Model(&model).
		Select(s.cols.Status + " AS status, COUNT(*) AS total").
		Group(s.cols.Status).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (s *GormStore[T]) items(rows []T) []Item {
	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = s.toItem(row)
	}
	return items
}
