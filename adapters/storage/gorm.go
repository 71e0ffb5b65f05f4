package storage

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"migration-estimator/core/types"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

const (
	defaultSubmissionLimit = 50
	defaultAuditLimit      = 100
)

// GormStore implements Store on gorm
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Store = (*GormStore)(nil)

// gormWriter routes gorm's logger through zap
type gormWriter struct {
	sugar *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// Open connects to the configured backend and migrates the records
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*GormStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("storage")

	var dia gorm.Dialector
	switch Backend(cfg.Driver) {
	case BackendPostgres:
		dia = postgres.Open(cfg.DSN)
	case BackendSQLite:
		if err := ensureSQLiteDir(cfg.DSN); err != nil {
			return nil, errors.Storage("failed to create database directory", err)
		}
		dia = sqlite.Open(cfg.DSN)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported storage backend: %q", cfg.Driver)
	}

	gormLogger := logger.New(
		gormWriter{sugar: log.Sugar()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dia, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, errors.Storage("failed to connect database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Storage("failed to configure connections", err)
	}
	if Backend(cfg.Driver) == BackendSQLite {
		// single writer; also keeps in-memory databases on one connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}

	store := &GormStore{db: db, log: log}
	if err := store.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("storage ready", zap.String("backend", cfg.Driver))
	return store, nil
}

// NewGormStore wraps an existing connection; callers run Migrate themselves
func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormStore{db: db, log: log}
}

func ensureSQLiteDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// Migrate creates or updates the tables for every record type
func (s *GormStore) Migrate() error {
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Submission{},
		&types.Answer{},
		&types.EstimateRecord{},
		&types.AuditLog{},
	)
	if err != nil {
		return errors.Storage("failed to migrate schema", err)
	}
	return nil
}

func translate(err error, resource string, id interface{}) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound(resource, id)
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Conflict(resource + " already exists")
	default:
		return errors.Storage(resource+" query failed", err)
	}
}

// CreateUser inserts a user
func (s *GormStore) CreateUser(ctx context.Context, user *types.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error, "user", user.Email)
}

// GetUser retrieves a user by ID
func (s *GormStore) GetUser(ctx context.Context, id uint) (*types.User, error) {
	var user types.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	var user types.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user", email)
	}
	return &user, nil
}

// ListUsers lists users, newest first
func (s *GormStore) ListUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error
	if err != nil {
		return nil, translate(err, "user", "list")
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of update
func (s *GormStore) UpdateUser(ctx context.Context, id uint, update types.UserUpdate) (*types.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Role != nil {
		changes["role"] = *update.Role
	}
	if update.IsActive != nil {
		changes["is_active"] = *update.IsActive
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return s.GetUser(ctx, id)
}

// CreateSubmission stores a submission, its answers and its estimate in one transaction
func (s *GormStore) CreateSubmission(ctx context.Context, sub *types.Submission, answers []types.Answer, estimate *types.EstimateRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(sub).Error; err != nil {
			return err
		}

		for i := range answers {
			answers[i].SubmissionID = sub.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}

		if estimate != nil {
			estimate.SubmissionID = sub.ID
			if err := tx.Create(estimate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err, "submission", sub.UserID)
	}

	sub.Answers = answers
	sub.Estimate = estimate
	return nil
}

// ListSubmissions lists submissions with their estimate, newest first
func (s *GormStore) ListSubmissions(ctx context.Context, filter types.SubmissionFilter) ([]types.Submission, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSubmissionLimit
	}

	q := s.db.WithContext(ctx).Preload("Estimate")
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var subs []types.Submission
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&subs).Error; err != nil {
		return nil, translate(err, "submission", "list")
	}
	return subs, nil
}

// GetSubmission retrieves a submission with answers and estimate
func (s *GormStore) GetSubmission(ctx context.Context, id uint) (*types.Submission, error) {
	var sub types.Submission
	err := s.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Estimate").
		First(&sub, id).Error
	if err != nil {
		return nil, translate(err, "submission", id)
	}
	return &sub, nil
}

// UpdateSubmission applies the non-nil fields of update
func (s *GormStore) UpdateSubmission(ctx context.Context, id uint, update types.SubmissionUpdate) (*types.Submission, error) {
	var sub types.Submission
	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, translate(err, "submission", id)
	}

	changes := map[string]interface{}{}
	if update.Status != nil {
		changes["status"] = *update.Status
	}
	if update.SalesComments != nil {
		changes["sales_comments"] = *update.SalesComments
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&sub).Updates(changes).Error; err != nil {
			return nil, translate(err, "submission", id)
		}
	}
	return s.GetSubmission(ctx, id)
}

// GetEstimate retrieves the estimate of a submission
func (s *GormStore) GetEstimate(ctx context.Context, submissionID uint) (*types.EstimateRecord, error) {
	var est types.EstimateRecord
	if err := s.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&est).Error; err != nil {
		return nil, translate(err, "estimate", submissionID)
	}
	return &est, nil
}

// AppendAudit stores an audit entry
func (s *GormStore) AppendAudit(ctx context.Context, entry *types.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return translate(s.db.WithContext(ctx).Create(entry).Error, "audit log", entry.Entity)
}

// ListAudit lists audit entries, newest first
func (s *GormStore) ListAudit(ctx context.Context, filter types.AuditFilter) ([]types.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	q := s.db.WithContext(ctx).Model(&types.AuditLog{})
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.EntityID != 0 {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ActorID != 0 {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.StartDate != nil {
		q = q.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("timestamp <= ?", *filter.EndDate)
	}

	var entries []types.AuditLog
	if err := q.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, translate(err, "audit log", "list")
	}
	return entries, nil
}

type countRow struct {
	Name  string
	Total int
}

func (s *GormStore) countAudit(ctx context.Context, column string, start, end time.Time) (map[string]int, error) {
	var rows []countRow
	err := s.db.WithContext(ctx).Model(&types.AuditLog{}).
		Select(column+" AS name, COUNT(*) AS total").
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "audit log", "stats")
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Total
	}
	return counts, nil
}

// SummarizeAudit counts entries per action and per entity in [start, end]
func (s *GormStore) SummarizeAudit(ctx context.Context, start, end time.Time) (*types.AuditStats, error) {
	actions, err := s.countAudit(ctx, "action", start, end)
	if err != nil {
		return nil, err
	}
	entities, err := s.countAudit(ctx, "entity", start, end)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range actions {
		total += n
	}
	return &types.AuditStats{
		TotalEvents: total,
		Actions:     actions,
		Entities:    entities,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// Ping checks connectivity
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Storage("failed to get connection", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Storage("database ping failed", err)
	}
	return nil
}

// Close closes the store
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
