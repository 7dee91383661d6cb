package helper

import (
	"fmt"

	"cinema_reservation/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// uniqueSlug slugifies text and appends -1, -2... until no other row of
// table uses it. excludeId skips the row being edited.
func uniqueSlug(tx *gorm.DB, table any, text string, excludeId uint) string {
	base := slug.Make(text)
	if base == "" {
		base = "item"
	}
	result := base
	i := 1

	for {
		var count int64
		query := tx.Model(table).Where("slug = ?", result)
		if excludeId > 0 {
			query = query.Where("id <> ?", excludeId)
		}
		query.Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

func GenerateUniqueCinemaSlug(tx *gorm.DB, name string, excludeId uint) string {
	return uniqueSlug(tx, &model.Cinema{}, name, excludeId)
}

func GenerateUniqueMovieSlug(tx *gorm.DB, title string, excludeId uint) string {
	return uniqueSlug(tx, &model.Movie{}, title, excludeId)
}
