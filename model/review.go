package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserId      string             `bson:"userId" json:"userId"`
	MovieId     string             `bson:"movieId" json:"movieId"`
	Rating      int                `bson:"rating" json:"rating"`
	Comment     string             `bson:"comment" json:"comment"`
	Status      string             `bson:"status" json:"status"`
	ModeratedBy string             `bson:"moderatedBy,omitempty" json:"moderatedBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ReviewView struct {
	Review       `bson:",inline"`
	ReviewerName string `json:"reviewerName"`
	MovieTitle   string `json:"movieTitle"`
}

type CreateReviewInput struct {
	MovieId IDText `json:"movieId"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type EditReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewFilter struct {
	Status  string `query:"status"`
	MovieId string `query:"movieId"`
	UserId  string `query:"userId"`
}
