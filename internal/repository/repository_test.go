package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/semak-karangan-api/internal/models"
	"github.com/noah-isme/semak-karangan-api/internal/scoring"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KaranganResult{}, &models.CreditAccount{}, &models.CreditTransaction{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newResult(uid, set, id, name string, ts time.Time) *models.KaranganResult {
	return &models.KaranganResult{
		ID:            models.ResultKey(set, id),
		UID:           uid,
		SubmissionID:  id,
		Name:          name,
		Set:           set,
		Essay:         "Pada hari Sabtu, saya pergi ke taman.",
		ContentScore:  12,
		LanguageScore: 14,
		TotalScore:    26,
		Errors:        []scoring.LanguageError{{Substring: "sukakan", Category: scoring.CategoryMorphology, Suggestion: "suka"}},
		Styles:        []scoring.StyleMatch{{Device: scoring.DeviceSimile, Text: "seperti angin"}},
		Timestamp:     ts,
	}
}

func TestResultRepositorySaveUpsertsByKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)
	ctx := context.Background()

	first := newResult("guru-1", "Set A", "1", "Aminah", time.Now())
	require.NoError(t, repo.Save(ctx, first))

	second := newResult("guru-1", "Set A", "1", "Aminah", time.Now())
	second.ContentScore = 16
	second.TotalScore = 30
	require.NoError(t, repo.Save(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.KaranganResult{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	results, err := repo.ListBySet(ctx, "guru-1", "Set A")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Set A_1", results[0].ID)
	require.Equal(t, 16, results[0].ContentScore)
	require.Equal(t, "sukakan", results[0].Errors[0].Substring)
	require.Equal(t, scoring.DeviceSimile, results[0].Styles[0].Device)
}

func TestResultRepositoryScopesByUID(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set A", "1", "Aminah", time.Now())))
	require.NoError(t, repo.Save(ctx, newResult("guru-2", "Set B", "1", "Badrul", time.Now())))

	results, err := repo.ListBySet(ctx, "guru-1", "Set B")
	require.NoError(t, err)
	require.Empty(t, results)

	sets, err := repo.ListSets(ctx, "guru-1")
	require.NoError(t, err)
	require.Equal(t, []string{"Set A"}, sets)
}

func TestResultRepositorySameKeyForDifferentSubmitters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)
	ctx := context.Background()

	first := newResult("guru-1", "Set A", "1", "Aminah", time.Now())
	first.ContentScore = 11
	require.NoError(t, repo.Save(ctx, first))

	second := newResult("guru-2", "Set A", "1", "Badrul", time.Now())
	second.ContentScore = 17
	require.NoError(t, repo.Save(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.KaranganResult{}).Count(&count).Error)
	require.Equal(t, int64(2), count)

	mine, err := repo.ListBySet(ctx, "guru-1", "Set A")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Aminah", mine[0].Name)
	require.Equal(t, 11, mine[0].ContentScore)

	theirs, err := repo.ListBySet(ctx, "guru-2", "Set A")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	require.Equal(t, "Badrul", theirs[0].Name)
	require.Equal(t, "Set A_1", theirs[0].ID)
}

func TestResultRepositoryStudentProgressIsChronological(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set C", "1", "Aminah", now)))
	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set A", "1", "Aminah", now.Add(-48*time.Hour))))
	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set B", "1", "Aminah", now.Add(-24*time.Hour))))
	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set B", "2", "Badrul", now)))

	results, err := repo.ListByStudent(ctx, "guru-1", "Aminah")
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "Set A", results[0].Set)
	require.Equal(t, "Set B", results[1].Set)
	require.Equal(t, "Set C", results[2].Set)
}

func TestResultRepositoryDistinctListsAndDelete(t *testing.T) {
	repo := NewResultRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set B", "1", "Chong", now)))
	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set A", "1", "Aminah", now)))
	require.NoError(t, repo.Save(ctx, newResult("guru-1", "Set A", "2", "Chong", now)))
	require.NoError(t, repo.Save(ctx, newResult("guru-2", "Set A", "9", "Aminah", now)))

	sets, err := repo.ListSets(ctx, "guru-1")
	require.NoError(t, err)
	require.Equal(t, []string{"Set A", "Set B"}, sets)

	names, err := repo.ListStudents(ctx, "guru-1")
	require.NoError(t, err)
	require.Equal(t, []string{"Aminah", "Chong"}, names)

	deleted, err := repo.DeleteByStudents(ctx, "guru-1", []string{"Chong"})
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	names, err = repo.ListStudents(ctx, "guru-1")
	require.NoError(t, err)
	require.Equal(t, []string{"Aminah"}, names)

	others, err := repo.ListStudents(ctx, "guru-2")
	require.NoError(t, err)
	require.Equal(t, []string{"Aminah"}, others)

	deleted, err = repo.DeleteByStudents(ctx, "guru-1", nil)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestCreditRepositoryDeductAndCredit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	_, err := repo.Balance(ctx, "guru-1")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	balance, err := repo.Credit(ctx, "guru-1", 10, models.CreditReasonGrant)
	require.NoError(t, err)
	require.Equal(t, 10, balance)

	balance, err = repo.Deduct(ctx, "guru-1", 7, models.CreditReasonBulkAnalysis)
	require.NoError(t, err)
	require.Equal(t, 3, balance)

	balance, err = repo.Balance(ctx, "guru-1")
	require.NoError(t, err)
	require.Equal(t, 3, balance)

	txs, err := repo.Transactions(ctx, "guru-1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, -7, txs[0].Amount)
	require.Equal(t, 3, txs[0].BalanceAfter)
	require.Equal(t, 10, txs[1].Amount)
}

func TestCreditRepositoryDeductRejectsOverdraw(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	_, err := repo.Credit(ctx, "guru-1", 6, models.CreditReasonGrant)
	require.NoError(t, err)

	_, err = repo.Deduct(ctx, "guru-1", 7, models.CreditReasonBulkAnalysis)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	balance, err := repo.Balance(ctx, "guru-1")
	require.NoError(t, err)
	require.Equal(t, 6, balance)

	var deductions int64
	require.NoError(t, db.Model(&models.CreditTransaction{}).Where("amount < 0").Count(&deductions).Error)
	require.Zero(t, deductions)
}

func TestCreditRepositoryDeductUnknownAccount(t *testing.T) {
	repo := NewCreditRepository(setupTestDB(t))

	_, err := repo.Deduct(context.Background(), "ghost", 1, models.CreditReasonBulkAnalysis)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
