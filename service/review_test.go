package service

import (
	"context"
	"testing"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService() (*ReviewService, *repository.MemoryCatalog) {
	catalog := repository.NewMemoryCatalog()
	catalog.AddUser(model.User{DTO: model.DTO{ID: 1}, FirstName: "Ana", LastName: "Lima"})
	catalog.AddMovie(model.Movie{DTO: model.DTO{ID: 3}, Title: "Alien"})
	catalog.AddMovie(model.Movie{DTO: model.DTO{ID: 4}, Title: "Heat"})
	return NewReviewService(catalog, repository.NewMemoryReviewStore()), catalog
}

func TestCreateReview(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()

	r, err := svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "3", Rating: 4, Comment: "tense"})
	require.NoError(t, err)
	assert.Equal(t, constants.REVIEW_PENDING, r.Status)
	assert.Equal(t, "1", r.UserId)
	assert.Equal(t, "3", r.MovieId)

	_, err = svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "3", Rating: 2})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "x", Rating: 2})
	requireKind(t, err, ErrValidation, "Invalid movieId")

	_, err = svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "99", Rating: 2})
	requireKind(t, err, ErrNotFound, "Movie not found")
}

func TestReviewModerationFlow(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()

	r, err := svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "3", Rating: 5})
	require.NoError(t, err)

	public, err := svc.ListApproved(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, public)

	_, err = svc.Moderate(ctx, customer, r.ID.Hex(), constants.REVIEW_APPROVED)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Moderate(ctx, manager, r.ID.Hex(), "maybe")
	assert.ErrorIs(t, err, ErrValidation)

	approved, err := svc.Moderate(ctx, manager, r.ID.Hex(), constants.REVIEW_APPROVED)
	require.NoError(t, err)
	assert.Equal(t, "2", approved.ModeratedBy)

	public, err = svc.ListApproved(ctx, 3)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Ana Lima", public[0].ReviewerName)
	assert.Equal(t, "Alien", public[0].MovieTitle)

	// editing sends the review back to moderation
	comment := "even better the second time"
	edited, err := svc.Update(ctx, customer, r.ID.Hex(), model.EditReviewInput{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, constants.REVIEW_PENDING, edited.Status)
	assert.Empty(t, edited.ModeratedBy)

	_, err = svc.Update(ctx, manager, r.ID.Hex(), model.EditReviewInput{Comment: &comment})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewViewPlaceholders(t *testing.T) {
	svc, catalog := newReviewService()
	ctx := context.Background()

	r, err := svc.Create(ctx, Actor{UserId: 42}, model.CreateReviewInput{MovieId: "4", Rating: 3})
	require.NoError(t, err)
	catalog.RemoveMovie(4)

	v, err := svc.Get(ctx, customer, r.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "User not found", v.ReviewerName)
	assert.Equal(t, "Movie not found", v.MovieTitle)
}

func TestDeleteReview(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()

	r, err := svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "3", Rating: 1})
	require.NoError(t, err)

	err = svc.Delete(ctx, Actor{UserId: 7}, r.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, manager, r.ID.Hex()))

	_, err = svc.Get(ctx, customer, r.ID.Hex())
	requireKind(t, err, ErrNotFound, "Review not found")
}

func TestGetHidesUnapprovedReview(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()

	r, err := svc.Create(ctx, customer, model.CreateReviewInput{MovieId: "3", Rating: 3})
	require.NoError(t, err)

	_, err = svc.Get(ctx, Actor{}, r.ID.Hex())
	requireKind(t, err, ErrNotFound, constants.NOT_FOUND_REVIEW)
	_, err = svc.Get(ctx, Actor{UserId: 9}, r.ID.Hex())
	requireKind(t, err, ErrNotFound, constants.NOT_FOUND_REVIEW)

	_, err = svc.Get(ctx, customer, r.ID.Hex())
	require.NoError(t, err)
	_, err = svc.Get(ctx, manager, r.ID.Hex())
	require.NoError(t, err)

	_, err = svc.Moderate(ctx, manager, r.ID.Hex(), constants.REVIEW_REJECTED)
	require.NoError(t, err)
	_, err = svc.Get(ctx, Actor{}, r.ID.Hex())
	requireKind(t, err, ErrNotFound, constants.NOT_FOUND_REVIEW)

	_, err = svc.Moderate(ctx, manager, r.ID.Hex(), constants.REVIEW_APPROVED)
	require.NoError(t, err)
	v, err := svc.Get(ctx, Actor{}, r.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, constants.REVIEW_APPROVED, v.Status)
}
