package repository

import (
	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
	"auction-site/utils"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// bump when the schema changes
const schemaVersion = 1

// Store defines the persistence interface for the auction site
type Store interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, record model.Record) error
	Get(ctx context.Context, dest model.Record, id uint) error
	List(ctx context.Context, dest any) error
	Update(ctx context.Context, record model.Record, id uint) error
	Delete(ctx context.Context, record model.Record, id uint) error
	GetUser(ctx context.Context, id uint) (model.User, error)
	FindUserByUsername(ctx context.Context, username string) (model.User, error)
	GetAuction(ctx context.Context, id uint) (model.Auction, error)
	CreateChat(ctx context.Context, chat *model.Chat) error
}

type schemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// GormStore is the gorm-backed implementation of Store
type GormStore struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path with foreign keys enabled
func Open(path, logLevel string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		Logger:  logger.Default.LogMode(gormLogLevel(logLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("repository: open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("repository: open %s: %w", path, err)
	}
	// in-memory databases live and die with their connection
	sqlDB.SetMaxOpenConns(1)

	return NewGormStore(db), nil
}

// NewGormStore wraps an existing gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Close releases the underlying connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

// Migrate brings the schema up to schemaVersion. Re-running it is a no-op.
func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("repository: migrate schema_migrations: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current >= schemaVersion {
		utils.Debug("schema up to date", map[string]any{"version": current})
		return nil
	}

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("repository: migrate to version %d: %w", schemaVersion, err)
	}
	if err := db.Create(&schemaMigration{Version: schemaVersion, AppliedAt: time.Now().UTC()}).Error; err != nil {
		return fmt.Errorf("repository: record schema version %d: %w", schemaVersion, err)
	}

	utils.Info("schema migrated", map[string]any{"from": current, "to": schemaVersion})
	return nil
}

// SchemaVersion returns the highest applied schema version, 0 when none
func (s *GormStore) SchemaVersion(ctx context.Context) (int, error) {
	var m schemaMigration
	if err := s.db.WithContext(ctx).Order("version desc").Limit(1).Find(&m).Error; err != nil {
		return 0, fmt.Errorf("repository: read schema version: %w", err)
	}
	return m.Version, nil
}

// Create validates and inserts a new record
func (s *GormStore) Create(ctx context.Context, record model.Record) error {
	if err := s.prepareWrite(ctx, record); err != nil {
		return fmt.Errorf("repository: create %s: %w", record.EntityName(), err)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return fmt.Errorf("repository: create %s: %w", record.EntityName(), err)
	}
	return nil
}

// Get loads the record with the given id into dest
func (s *GormStore) Get(ctx context.Context, dest model.Record, id uint) error {
	if id == 0 {
		return fmt.Errorf("repository: get %s: %w", dest.EntityName(), auctionerrors.ErrInvalidID)
	}

	if err := s.db.WithContext(ctx).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("repository: get %s %d: %w", dest.EntityName(), id, auctionerrors.ErrRecordNotFound)
		}
		return fmt.Errorf("repository: get %s %d: %w", dest.EntityName(), id, err)
	}
	return nil
}

// List loads every record of the slice's element type, ordered by id.
// dest must be a pointer to a slice of a model type.
func (s *GormStore) List(ctx context.Context, dest any) error {
	if err := s.db.WithContext(ctx).Order("id").Find(dest).Error; err != nil {
		return fmt.Errorf("repository: list %T: %w", dest, err)
	}
	return nil
}

// Update overwrites every field of the record with the given id
func (s *GormStore) Update(ctx context.Context, record model.Record, id uint) error {
	if id == 0 {
		return fmt.Errorf("repository: update %s: %w", record.EntityName(), auctionerrors.ErrInvalidID)
	}
	record.SetID(id)

	existing := newRecordLike(record)
	if err := s.Get(ctx, existing, id); err != nil {
		return fmt.Errorf("repository: update: %w", err)
	}
	if err := s.prepareWrite(ctx, record); err != nil {
		return fmt.Errorf("repository: update %s %d: %w", record.EntityName(), id, err)
	}

	// the posting date is fixed at creation
	if p, ok := record.(*model.Product); ok {
		p.DatePosted = existing.(*model.Product).DatePosted
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error; err != nil {
		return fmt.Errorf("repository: update %s %d: %w", record.EntityName(), id, err)
	}
	return nil
}

// Delete removes the record with the given id along with every row that depends on it
func (s *GormStore) Delete(ctx context.Context, record model.Record, id uint) error {
	if id == 0 {
		return fmt.Errorf("repository: delete %s: %w", record.EntityName(), auctionerrors.ErrInvalidID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auctionerrors.ErrRecordNotFound
			}
			return err
		}

		switch record.(type) {
		case *model.Product:
			var auctionIDs []uint
			if err := tx.Model(&model.Auction{}).Where("product_id = ?", id).Pluck("id", &auctionIDs).Error; err != nil {
				return err
			}
			if err := deleteAuctions(tx, auctionIDs); err != nil {
				return err
			}
		case *model.Auction:
			if err := deleteAuctionDependents(tx, []uint{id}); err != nil {
				return err
			}
		case *model.User:
			for _, dep := range []any{&model.Watchlist{}, &model.Bid{}, &model.Chat{}} {
				if err := tx.Where("user_id = ?", id).Delete(dep).Error; err != nil {
					return err
				}
			}
		}

		return tx.Delete(record, id).Error
	})
	if err != nil {
		return fmt.Errorf("repository: delete %s %d: %w", record.EntityName(), id, err)
	}
	return nil
}

func deleteAuctions(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := deleteAuctionDependents(tx, ids); err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Auction{}).Error
}

func deleteAuctionDependents(tx *gorm.DB, auctionIDs []uint) error {
	if len(auctionIDs) == 0 {
		return nil
	}
	for _, dep := range []any{&model.Watchlist{}, &model.Bid{}, &model.Chat{}} {
		if err := tx.Where("auction_id IN ?", auctionIDs).Delete(dep).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetUser returns the user with the given id
func (s *GormStore) GetUser(ctx context.Context, id uint) (model.User, error) {
	var u model.User
	if err := s.Get(ctx, &u, id); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// FindUserByUsername returns the first user registered under username
func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Order("id").First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("repository: find user %q: %w", username, auctionerrors.ErrRecordNotFound)
		}
		return model.User{}, fmt.Errorf("repository: find user %q: %w", username, err)
	}
	return u, nil
}

// GetAuction returns the auction with the given id
func (s *GormStore) GetAuction(ctx context.Context, id uint) (model.Auction, error) {
	var a model.Auction
	if err := s.Get(ctx, &a, id); err != nil {
		return model.Auction{}, err
	}
	return a, nil
}

// CreateChat records a chat message
func (s *GormStore) CreateChat(ctx context.Context, chat *model.Chat) error {
	return s.Create(ctx, chat)
}

type parentRef struct {
	table model.Record
	id    uint
}

func parentsOf(record model.Record) []parentRef {
	switch r := record.(type) {
	case *model.Auction:
		return []parentRef{{&model.Product{}, r.ProductID}}
	case *model.Watchlist:
		return []parentRef{{&model.User{}, r.UserID}, {&model.Auction{}, r.AuctionID}}
	case *model.Bid:
		return []parentRef{{&model.User{}, r.UserID}, {&model.Auction{}, r.AuctionID}}
	case *model.Chat:
		return []parentRef{{&model.Auction{}, r.AuctionID}, {&model.User{}, r.UserID}}
	}
	return nil
}

// prepareWrite validates field constraints and checks that referenced parents exist
func (s *GormStore) prepareWrite(ctx context.Context, record model.Record) error {
	if err := model.Validate(record); err != nil {
		return err
	}

	for _, p := range parentsOf(record) {
		var n int64
		if err := s.db.WithContext(ctx).Model(p.table).Where("id = ?", p.id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s %d", auctionerrors.ErrParentNotFound, p.table.EntityName(), p.id)
		}
	}
	return nil
}

func newRecordLike(record model.Record) model.Record {
	return reflect.New(reflect.TypeOf(record).Elem()).Interface().(model.Record)
}
