package social

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pluma-social/pluma/internal/annotate"
	"github.com/pluma-social/pluma/internal/db"
	"github.com/pluma-social/pluma/internal/models"
)

func newTestRepo(t *testing.T) *db.Repository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// One connection so the in-memory database is shared
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.Account{},
		&models.Follow{},
		&models.Post{},
		&models.Tag{},
		&models.PostTag{},
		&models.Mention{},
		&models.Like{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db.NewRepository(gdb)
}

func newServices(t *testing.T) (*db.Repository, *FollowService, *PostService) {
	t.Helper()
	repo := newTestRepo(t)
	follows := NewFollowService(repo, zap.NewNop())
	posts := NewPostService(repo, follows, annotate.NewService(zap.NewNop()), zap.NewNop(), 12)
	return repo, follows, posts
}

func seedAccount(t *testing.T, repo *db.Repository, username string, active, private bool) *models.Account {
	t.Helper()
	acc := &models.Account{
		Username:  username,
		Active:    active,
		Private:   private,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Gorm().Create(acc).Error; err != nil {
		t.Fatalf("Failed to seed account %s: %v", username, err)
	}
	return acc
}
