package repository

import (
	"context"
	"errors"

	"cinema_reservation/model"

	"gorm.io/gorm"
)

// GormCatalog resolves relational entities by primary key.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func first[T any](ctx context.Context, db *gorm.DB, id model.ID) (*T, error) {
	var v T
	if err := db.WithContext(ctx).First(&v, id.Uint()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormCatalog) FindUser(ctx context.Context, id model.ID) (*model.User, error) {
	return first[model.User](ctx, r.db, id)
}

func (r *GormCatalog) FindMovie(ctx context.Context, id model.ID) (*model.Movie, error) {
	return first[model.Movie](ctx, r.db, id)
}

func (r *GormCatalog) FindCinema(ctx context.Context, id model.ID) (*model.Cinema, error) {
	return first[model.Cinema](ctx, r.db, id)
}

func (r *GormCatalog) FindRoom(ctx context.Context, id model.ID) (*model.Room, error) {
	return first[model.Room](ctx, r.db, id)
}

func (r *GormCatalog) FindSession(ctx context.Context, id model.ID) (*model.Session, error) {
	return first[model.Session](ctx, r.db, id)
}

func (r *GormCatalog) FindTimeRange(ctx context.Context, id model.ID) (*model.TimeRange, error) {
	return first[model.TimeRange](ctx, r.db, id)
}
