package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/semak-karangan-api/internal/models"
)

// ResultRepository persists essay analysis results.
type ResultRepository interface {
	Save(ctx context.Context, result *models.KaranganResult) error
	ListBySet(ctx context.Context, uid, set string) ([]models.KaranganResult, error)
	ListByStudent(ctx context.Context, uid, name string) ([]models.KaranganResult, error)
	ListSets(ctx context.Context, uid string) ([]string, error)
	ListStudents(ctx context.Context, uid string) ([]string, error)
	DeleteByStudents(ctx context.Context, uid string, names []string) (int64, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) scoped(ctx context.Context, uid string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.KaranganResult{}).Where("uid = ?", uid)
}

// Save inserts the result or replaces every column of the submitter's existing
// result with the same key. Another submitter's row is never touched.
func (r *resultRepository) Save(ctx context.Context, result *models.KaranganResult) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "uid"}},
			UpdateAll: true,
		}).
		Create(result).Error
}

func (r *resultRepository) ListBySet(ctx context.Context, uid, set string) ([]models.KaranganResult, error) {
	var results []models.KaranganResult
	if err := r.scoped(ctx, uid).
		Where("set_name = ?", set).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// ListByStudent returns a student's results oldest first for progress views.
func (r *resultRepository) ListByStudent(ctx context.Context, uid, name string) ([]models.KaranganResult, error) {
	var results []models.KaranganResult
	if err := r.scoped(ctx, uid).
		Where("name = ?", name).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) ListSets(ctx context.Context, uid string) ([]string, error) {
	var sets []string
	if err := r.scoped(ctx, uid).
		Where("set_name <> ''").
		Distinct().
		Order("set_name ASC").
		Pluck("set_name", &sets).Error; err != nil {
		return nil, err
	}

	return sets, nil
}

func (r *resultRepository) ListStudents(ctx context.Context, uid string) ([]string, error) {
	var names []string
	if err := r.scoped(ctx, uid).
		Where("name <> ''").
		Distinct().
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}

	return names, nil
}

func (r *resultRepository) DeleteByStudents(ctx context.Context, uid string, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Where("name IN ?", names).
		Delete(&models.KaranganResult{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
