// Package wire provides dependency injection for the cocsheet application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"os"
	"os/user"
	"sync"
	"time"

	"go.uber.org/zap"

	cliadapter "github.com/example/cocsheet/internal/adapters/cli"
	"github.com/example/cocsheet/internal/adapters/sqlite"
	"github.com/example/cocsheet/internal/app"
	"github.com/example/cocsheet/internal/config"
	"github.com/example/cocsheet/internal/core/dice"
	"github.com/example/cocsheet/internal/core/skill"
	"github.com/example/cocsheet/internal/db"
	"github.com/example/cocsheet/internal/logging"
	"github.com/example/cocsheet/internal/ports/primary"
)

var (
	cfg      *config.Config
	logger   *zap.Logger
	database *sql.DB
	initErr  error

	sheetService   primary.SheetService
	skillService   primary.SkillService
	versionService primary.VersionService
	growthService  primary.GrowthService
	exportService  primary.ExportService
	imageService   primary.ImageService
	logService     primary.LogService

	once sync.Once
)

// Init loads configuration from the working directory, opens the database
// and builds every service. Later calls return the first result.
func Init() error {
	once.Do(initServices)
	return initErr
}

func mustInit() {
	if err := Init(); err != nil {
		log.Fatalf("failed to initialize cocsheet: %v", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	dir, err := os.Getwd()
	if err != nil {
		initErr = err
		return
	}

	cfg, err = config.Load(dir)
	if err != nil {
		initErr = err
		return
	}
	if cfg.User == "" {
		cfg.User = osUser()
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		initErr = err
		return
	}

	database, err = db.Open(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		initErr = err
		return
	}
	logger.Debug("database ready", zap.String("driver", cfg.DB.Driver), zap.String("path", cfg.DB.Path))

	// Repository adapters (secondary ports) with the injected DB
	tx := sqlite.NewTransactor(database, sqlite.RetryPolicy{
		Attempts:  cfg.Retry.Attempts,
		BaseDelay: time.Duration(cfg.Retry.BaseDelay),
	}, logger)
	sheetRepo := sqlite.NewSheetRepository(database)
	skillRepo := sqlite.NewSkillRepository(database)
	growthRepo := sqlite.NewGrowthRepository(database)
	imageRepo := sqlite.NewImageRepository(database)
	auditRepo := sqlite.NewAuditRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(auditRepo)
	catalog := skill.Default()

	// Services (primary ports implementation)
	sheetService = app.NewSheetService(tx, sheetRepo, skillRepo, logWriter, catalog, logger)
	skillService = app.NewSkillService(tx, sheetRepo, skillRepo, catalog, logger)
	versionService = app.NewVersionService(tx, sheetRepo, skillRepo, imageRepo, logWriter, logger)
	growthService = app.NewGrowthService(tx, sheetRepo, growthRepo, logger)
	exportService = app.NewExportService(sheetRepo, skillRepo)
	imageService = app.NewImageService(tx, sheetRepo, imageRepo, logger)
	logService = app.NewLogService(sheetRepo, auditRepo)
}

func osUser() string {
	u, err := user.Current()
	if err != nil {
		return "local"
	}
	return u.Username
}

// Close flushes the logger and closes the database.
func Close() error {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		return database.Close()
	}
	return nil
}

// Actor returns the configured user every command acts as.
func Actor() string {
	mustInit()
	return cfg.User
}

// SheetService returns the singleton SheetService instance.
func SheetService() primary.SheetService {
	mustInit()
	return sheetService
}

// SkillService returns the singleton SkillService instance.
func SkillService() primary.SkillService {
	mustInit()
	return skillService
}

// VersionService returns the singleton VersionService instance.
func VersionService() primary.VersionService {
	mustInit()
	return versionService
}

// GrowthService returns the singleton GrowthService instance.
func GrowthService() primary.GrowthService {
	mustInit()
	return growthService
}

// ExportService returns the singleton ExportService instance.
func ExportService() primary.ExportService {
	mustInit()
	return exportService
}

// ImageService returns the singleton ImageService instance.
func ImageService() primary.ImageService {
	mustInit()
	return imageService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	mustInit()
	return logService
}

// SheetAdapterWithOutput returns a new SheetAdapter writing to the given output.
// Each call creates a new adapter (adapters are stateless translators).
func SheetAdapterWithOutput(out io.Writer) *cliadapter.SheetAdapter {
	return cliadapter.NewSheetAdapter(SheetService(), Actor(), out)
}

// SkillAdapterWithOutput returns a new SkillAdapter writing to the given output.
func SkillAdapterWithOutput(out io.Writer) *cliadapter.SkillAdapter {
	return cliadapter.NewSkillAdapter(SkillService(), Actor(), out)
}

// VersionAdapterWithOutput returns a new VersionAdapter writing to the given output.
func VersionAdapterWithOutput(out io.Writer) *cliadapter.VersionAdapter {
	return cliadapter.NewVersionAdapter(VersionService(), Actor(), out)
}

// GrowthAdapterWithOutput returns a new GrowthAdapter writing to the given output.
func GrowthAdapterWithOutput(out io.Writer) *cliadapter.GrowthAdapter {
	return cliadapter.NewGrowthAdapter(GrowthService(), Actor(), out)
}

// ImageAdapterWithOutput returns a new ImageAdapter writing to the given output.
func ImageAdapterWithOutput(out io.Writer) *cliadapter.ImageAdapter {
	return cliadapter.NewImageAdapter(ImageService(), Actor(), out)
}

// LogAdapterWithOutput returns a new LogAdapter writing to the given output.
func LogAdapterWithOutput(out io.Writer) *cliadapter.LogAdapter {
	return cliadapter.NewLogAdapter(LogService(), Actor(), out)
}

// ExportAdapterWithOutput returns a new ExportAdapter writing to the given output.
func ExportAdapterWithOutput(out io.Writer) *cliadapter.ExportAdapter {
	return cliadapter.NewExportAdapter(ExportService(), Actor(), out)
}

// DiceAdapterWithOutput returns a DiceAdapter seeded from the clock.
// Dice need no database, so this does not initialize services.
func DiceAdapterWithOutput(out io.Writer) *cliadapter.DiceAdapter {
	return cliadapter.NewDiceAdapter(dice.NewSource(time.Now().UnixNano()), out)
}
