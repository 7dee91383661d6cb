package handler

import (
	"errors"
	"strings"

	"cinema_reservation/constants"
	"cinema_reservation/database"
	"cinema_reservation/helper"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetCategories(c *fiber.Ctx) error {
	var categories []model.Category
	if err := database.DB.Order("name").Find(&categories).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, categories)
}

func GetCategoryById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	var category model.Category
	if err := database.DB.First(&category, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CATEGORY)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, category)
}

func categoryNameTaken(name string, excludeId uint) (bool, error) {
	var count int64
	query := database.DB.Model(&model.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeId > 0 {
		query = query.Where("id <> ?", excludeId)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func CreateCategory(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCategory").(model.CategoryInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	input.Name = strings.TrimSpace(input.Name)
	taken, err := categoryNameTaken(input.Name, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if taken {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.CATEGORY_NAME_ALREADY_EXIST, errors.New("name exists"), "name")
	}

	category := model.Category{Name: input.Name}
	if err := database.DB.Create(&category).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, category)
}

func EditCategory(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputCategory").(model.CategoryInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var category model.Category
	if err := db.First(&category, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CATEGORY)
	}
	input.Name = strings.TrimSpace(input.Name)
	taken, err := categoryNameTaken(input.Name, category.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if taken {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.CATEGORY_NAME_ALREADY_EXIST, errors.New("name exists"), "name")
	}

	category.Name = input.Name
	if err := db.Save(&category).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	helper.MovieListCache.Invalidate(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, category)
}

func DeleteCategory(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var category model.Category
	if err := db.First(&category, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CATEGORY)
	}

	tx := db.Begin()
	// categories have no back reference to movies
	if err := tx.Exec("DELETE FROM movie_categories WHERE category_id = ?", category.ID).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	helper.MovieListCache.Invalidate(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, category)
}

// GetMovies lists movies filtered by title and category. Responses are
// cached per query string until the next catalog write.
func GetMovies(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cacheKey := string(c.Request().URI().QueryString())
	if body, ok := helper.MovieListCache.Get(ctx, cacheKey); ok {
		c.Set("X-Cache", "HIT")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).Send(body)
	}

	filter, ok := c.Locals("movieFilter").(model.MovieFilter)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	condition := database.DB.Model(&model.Movie{})
	if title := strings.TrimSpace(filter.Title); title != "" {
		condition = condition.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filter.CategoryId > 0 {
		condition = condition.Where("id IN (?)",
			database.DB.Table("movie_categories").Select("movie_id").Where("category_id = ?", filter.CategoryId))
	}

	var totalCount int64
	if err := condition.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	var movies []model.Movie
	if err := utils.ApplyPagination(condition, filter.Limit, filter.Page).
		Preload("Categories").
		Order("id DESC").
		Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	body, err := c.App().Config().JSONEncoder(fiber.Map{
		"status": "success",
		"data": model.ResponseCustom{
			Rows:       movies,
			Limit:      filter.Limit,
			Page:       filter.Page,
			TotalCount: totalCount,
		},
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	helper.MovieListCache.Set(ctx, cacheKey, body)
	c.Set("X-Cache", "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}

func GetMovieById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	var movie model.Movie
	if err := database.DB.Preload("Categories").First(&movie, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_MOVIE)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func GetMovieBySlug(c *fiber.Ctx) error {
	var movie model.Movie
	if err := database.DB.Preload("Categories").Where("slug = ?", c.Params("slug")).First(&movie).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_MOVIE)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func findCategories(ids []uint) ([]model.Category, error) {
	var categories []model.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := database.DB.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(uniqueIds(ids)) {
		return nil, errors.New("unknown category id")
	}
	return categories, nil
}

func uniqueIds(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func CreateMovie(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateMovie").(model.CreateMovieInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	categories, err := findCategories(input.CategoryIds)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusNotFound, constants.NOT_FOUND_CATEGORY, err, "categoryIds")
	}

	var movie model.Movie
	copier.Copy(&movie, &input)
	movie.Categories = categories

	tx := database.DB.Begin()
	movie.Slug = helper.GenerateUniqueMovieSlug(tx, movie.Title, 0)
	if err := tx.Create(&movie).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.MovieListCache.Invalidate(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusCreated, movie)
}

func EditMovie(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputEditMovie").(model.EditMovieInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var movie model.Movie
	if err := db.Preload("Categories").First(&movie, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_MOVIE)
	}

	titleChanged := input.Title != nil && *input.Title != movie.Title
	previousImage := movie.ImageUrl
	categoryIds := input.CategoryIds
	input.CategoryIds = nil
	if err := copier.CopyWithOption(&movie, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	tx := db.Begin()
	if titleChanged {
		movie.Slug = helper.GenerateUniqueMovieSlug(tx, movie.Title, movie.ID)
	}
	if err := tx.Omit("Categories").Save(&movie).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if categoryIds != nil {
		categories, err := findCategories(categoryIds)
		if err != nil {
			tx.Rollback()
			return utils.ErrorResponseHaveKey(c, fiber.StatusNotFound, constants.NOT_FOUND_CATEGORY, err, "categoryIds")
		}
		if err := tx.Model(&movie).Association("Categories").Replace(categories); err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		movie.Categories = categories
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if previousImage != movie.ImageUrl {
		helper.DestroyImage(previousImage)
	}
	helper.MovieListCache.Invalidate(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func DeleteMovie(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var movie model.Movie
	if err := db.First(&movie, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_MOVIE)
	}

	tx := db.Begin()
	if err := tx.Model(&movie).Association("Categories").Clear(); err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Delete(&movie).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.DestroyImage(movie.ImageUrl)
	helper.MovieListCache.Invalidate(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}
