package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Page is a 1-based pagination window. Zero values select the defaults.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) scope() func(*gorm.DB) *gorm.DB {
	n := p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((n.Number - 1) * n.Size).Limit(n.Size)
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a lower-cased substring pattern for use with likeClause.
// Wildcards in s match literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// likeClause renders a case-insensitive substring match on col. '!' is the escape
// character because it needs no quoting in any supported dialect.
func likeClause(col string) string {
	return "LOWER(" + col + ") LIKE ? ESCAPE '!'"
}

// restoreRow clears deleted_at on a row whether or not it is currently deleted.
func restoreRow(ctx context.Context, db *gorm.DB, row interface{}, id uint, notFound error) error {
	err := db.WithContext(ctx).Unscoped().Select("id").First(row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Unscoped().Model(row).Where("id = ?", id).Update("deleted_at", nil).Error
}
