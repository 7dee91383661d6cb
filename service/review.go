package service

import (
	"context"
	"errors"
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"golang.org/x/sync/errgroup"
)

// ReviewService handles movie reviews and their moderation. New and edited
// reviews wait in pending until a moderator approves or rejects them.
type ReviewService struct {
	catalog CatalogReader
	reviews ReviewStore
	now     func() time.Time
}

func NewReviewService(catalog CatalogReader, reviews ReviewStore) *ReviewService {
	return &ReviewService{catalog: catalog, reviews: reviews, now: time.Now}
}

func (s *ReviewService) Create(ctx context.Context, actor Actor, in model.CreateReviewInput) (*model.Review, error) {
	movieId, err := in.MovieId.Parse()
	if err != nil {
		return nil, invalid("Invalid movieId", err)
	}
	var movie *model.Movie
	if err := mustFind(ctx, "Movie", movieId, s.catalog.FindMovie, &movie); err != nil {
		return nil, err
	}

	_, err = s.reviews.FindByUserAndMovie(ctx, actor.UserId.String(), movieId.String())
	if err == nil {
		return nil, conflict("You have already reviewed this movie")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	review := &model.Review{
		UserId:    actor.UserId.String(),
		MovieId:   movieId.String(),
		Rating:    in.Rating,
		Comment:   in.Comment,
		Status:    constants.REVIEW_PENDING,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("You have already reviewed this movie")
		}
		return nil, err
	}
	return review, nil
}

// Get returns one review. Reviews that are not approved are only visible to
// their author and to moderators; anyone else gets not found.
func (s *ReviewService) Get(ctx context.Context, actor Actor, id string) (*model.ReviewView, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != constants.REVIEW_APPROVED && !actor.owns(r.UserId) {
		return nil, notFound(constants.NOT_FOUND_REVIEW)
	}
	v, err := s.view(ctx, *r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns reviews matching the filter, newest first.
func (s *ReviewService) List(ctx context.Context, filter model.ReviewFilter) ([]model.ReviewView, error) {
	list, err := s.reviews.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

// ListApproved returns the publicly visible reviews of a movie.
func (s *ReviewService) ListApproved(ctx context.Context, movieId model.ID) ([]model.ReviewView, error) {
	return s.List(ctx, model.ReviewFilter{MovieId: movieId.String(), Status: constants.REVIEW_APPROVED})
}

// Update lets the author change rating or comment; the review goes back to
// pending.
func (s *ReviewService) Update(ctx context.Context, actor Actor, id string, in model.EditReviewInput) (*model.Review, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserId != actor.UserId.String() {
		return nil, forbidden("You can only edit your own reviews")
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.Comment != nil {
		r.Comment = *in.Comment
	}
	r.Status = constants.REVIEW_PENDING
	r.ModeratedBy = ""
	r.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Moderate sets a review to approved or rejected.
func (s *ReviewService) Moderate(ctx context.Context, actor Actor, id, status string) (*model.Review, error) {
	if status != constants.REVIEW_APPROVED && status != constants.REVIEW_REJECTED {
		return nil, invalid("Invalid review status", nil)
	}
	if !actor.CanManage {
		return nil, forbidden(constants.NOT_PERMISSION)
	}
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Status = status
	r.ModeratedBy = actor.UserId.String()
	r.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a review. Authors may delete their own; moderators any.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id string) error {
	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(r.UserId) {
		return forbidden("You can only delete your own reviews")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(constants.NOT_FOUND_REVIEW)
		}
		return err
	}
	return nil
}

func (s *ReviewService) find(ctx context.Context, id string) (*model.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(constants.NOT_FOUND_REVIEW)
	}
	return r, err
}

func (s *ReviewService) save(ctx context.Context, r *model.Review) error {
	err := s.reviews.Replace(ctx, r)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(constants.NOT_FOUND_REVIEW)
	}
	return err
}

func (s *ReviewService) view(ctx context.Context, r model.Review) (model.ReviewView, error) {
	v := model.ReviewView{
		Review:       r,
		ReviewerName: constants.NOT_FOUND_USER,
		MovieTitle:   constants.NOT_FOUND_MOVIE,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := findOptional(gctx, r.UserId, s.catalog.FindUser)
		if user != nil {
			v.ReviewerName = user.FullName()
		}
		return err
	})
	g.Go(func() error {
		movie, err := findOptional(gctx, r.MovieId, s.catalog.FindMovie)
		if movie != nil {
			v.MovieTitle = movie.Title
		}
		return err
	})
	return v, g.Wait()
}

func (s *ReviewService) views(ctx context.Context, list []model.Review) ([]model.ReviewView, error) {
	out := make([]model.ReviewView, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range list {
		i := i
		g.Go(func() error {
			v, err := s.view(gctx, list[i])
			out[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
