package history

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps entries in the games table of a SQL database.
type GormStore struct {
	DB *gorm.DB
}

// OpenGormStore connects through dialector and migrates the games table.
func OpenGormStore(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormStore(db)
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Add(e Entry) error {
	if err := s.DB.Create(&e).Error; err != nil {
		return fmt.Errorf("failed to save game %s: %w", e.ID, err)
	}
	return nil
}

func (s *GormStore) All() ([]Entry, error) {
	var entries []Entry
	if err := s.DB.Order("played_at desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return entries, nil
}

func (s *GormStore) Get(id string) (Entry, error) {
	var e Entry
	err := s.DB.Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return e, nil
}

func (s *GormStore) Delete(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&Entry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
