package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/layoffs/internal/domain/model"
	"github.com/okian/layoffs/pkg/logger"
	"github.com/okian/layoffs/pkg/metrics"
)

// GormStore implements Store on any gorm dialect.
type GormStore struct {
	db           *gorm.DB
	rawTable     string
	stagingTable string
	batchSize    int
	logger       logger.Logger
}

// Open connects to driver ("sqlite" or "postgres") and returns a store.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if driver == "sqlite" {
		// One writer; also keeps ":memory:" databases on a single connection.
		sqlDB.SetMaxOpenConns(1)
	}
	return NewGormStore(db, opts...), nil
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	s := &GormStore{
		db:           db,
		rawTable:     "layoffs",
		stagingTable: "layoffs_staging",
		batchSize:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportRaw replaces the raw table with rows.
func (s *GormStore) ImportRaw(ctx context.Context, rows []model.RawRow) error {
	defer s.observe("import_raw", time.Now())

	batch := make([]rawRow, len(rows))
	for i, r := range rows {
		batch[i] = toRawRow(i+1, r)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recreate(tx, s.rawTable, &rawRow{}); err != nil {
			return err
		}
		return s.insert(tx, s.rawTable, &batch, len(batch))
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", s.rawTable, err)
	}
	s.info(ctx, "raw table imported", logger.String("table", s.rawTable), logger.Int("rows", len(rows)))
	return nil
}

// LoadRaw returns the raw table in import order.
func (s *GormStore) LoadRaw(ctx context.Context) ([]model.RawRow, error) {
	defer s.observe("load_raw", time.Now())

	var rows []rawRow
	if err := s.db.WithContext(ctx).Table(s.rawTable).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", s.rawTable, err)
	}
	out := make([]model.RawRow, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// Stage recreates the staging table from the raw table.
func (s *GormStore) Stage(ctx context.Context) (int, error) {
	raw, err := s.LoadRaw(ctx)
	if err != nil {
		return 0, err
	}
	records, err := model.ParseRows(raw)
	if err != nil {
		var perr *model.ParseError
		if errors.As(err, &perr) {
			metrics.RecordParseError(perr.Field)
		}
		return 0, fmt.Errorf("stage %s: %w", s.stagingTable, err)
	}

	defer s.observe("stage", time.Now())
	batch := toStagingRows(records)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recreate(tx, s.stagingTable, &stagingRow{}); err != nil {
			return err
		}
		return s.insert(tx, s.stagingTable, &batch, len(batch))
	})
	if err != nil {
		return 0, fmt.Errorf("stage %s: %w", s.stagingTable, err)
	}
	s.info(ctx, "staging table created",
		logger.String("from", s.rawTable),
		logger.String("table", s.stagingTable),
		logger.Int("rows", len(records)),
	)
	return len(records), nil
}

// LoadStaging returns the staging table in row order.
func (s *GormStore) LoadStaging(ctx context.Context) ([]model.LayoffRecord, error) {
	defer s.observe("load_staging", time.Now())

	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(s.stagingTable) {
		return nil, fmt.Errorf("%w: %s", ErrNotStaged, s.stagingTable)
	}
	var rows []stagingRow
	if err := db.Table(s.stagingTable).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", s.stagingTable, err)
	}
	out := make([]model.LayoffRecord, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// ReplaceStaging overwrites the staging table with records.
func (s *GormStore) ReplaceStaging(ctx context.Context, records []model.LayoffRecord) error {
	defer s.observe("replace_staging", time.Now())

	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(s.stagingTable) {
		return fmt.Errorf("%w: %s", ErrNotStaged, s.stagingTable)
	}
	batch := toStagingRows(records)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(s.stagingTable).Where("1 = 1").Delete(&stagingRow{}).Error; err != nil {
			return err
		}
		return s.insert(tx, s.stagingTable, &batch, len(batch))
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", s.stagingTable, err)
	}
	s.info(ctx, "staging table replaced", logger.String("table", s.stagingTable), logger.Int("rows", len(records)))
	return nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) insert(tx *gorm.DB, table string, rows any, n int) error {
	if n == 0 {
		return nil
	}
	return tx.Table(table).CreateInBatches(rows, s.batchSize).Error
}

func (s *GormStore) observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func (s *GormStore) info(ctx context.Context, msg string, fields ...logger.Field) {
	if s.logger != nil {
		s.logger.Info(ctx, msg, fields...)
	}
}

// recreate drops table if present and creates it from the layout of model.
func recreate(tx *gorm.DB, table string, layout any) error {
	m := tx.Migrator()
	if m.HasTable(table) {
		if err := m.DropTable(table); err != nil {
			return err
		}
	}
	return tx.Table(table).AutoMigrate(layout)
}

func toStagingRows(records []model.LayoffRecord) []stagingRow {
	rows := make([]stagingRow, len(records))
	for i, r := range records {
		rows[i] = toStagingRow(i+1, r)
	}
	return rows
}
