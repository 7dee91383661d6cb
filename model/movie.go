package model

type Category struct {
	DTO
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type Movie struct {
	DTO
	Title       string     `gorm:"size:255;not null;index" json:"title"`
	Slug        string     `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Duration    int        `json:"duration"`
	ReleaseDate *Date      `json:"releaseDate"`
	ImageUrl    string     `json:"imageUrl"`
	Director    string     `gorm:"size:255" json:"director"`
	Categories  []Category `gorm:"many2many:movie_categories;" json:"categories"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateMovieInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Duration    int        `json:"duration" validate:"required,gt=0"`
	ReleaseDate *Date      `json:"releaseDate"`
	ImageUrl    string     `json:"imageUrl" validate:"omitempty,url"`
	Director    string     `json:"director" validate:"max=255"`
	CategoryIds []uint     `json:"categoryIds"`
}

type EditMovieInput struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	Duration    *int       `json:"duration" validate:"omitempty,gt=0"`
	ReleaseDate *Date      `json:"releaseDate"`
	ImageUrl    *string    `json:"imageUrl" validate:"omitempty,url"`
	Director    *string    `json:"director" validate:"omitempty,max=255"`
	CategoryIds []uint     `json:"categoryIds"`
}

type MovieFilter struct {
	Title      string `query:"title"`
	CategoryId uint   `query:"categoryId"`
	Limit      *int   `query:"limit"`
	Page       *int   `query:"page"`
}
