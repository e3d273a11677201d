package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"price-match/internal/catalog"
	"price-match/internal/config"
	"price-match/internal/fileio"
	matchHnd "price-match/internal/match/handler"
	"price-match/internal/match/knowledge"
	"price-match/internal/match/model"
	"price-match/internal/match/service"
	"price-match/internal/match/text"
	serverhttp "price-match/server/http"
	"price-match/server/http/handlers"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	kb, err := knowledge.Load(cfg.KnowledgeFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("knowledge tables")
	}
	stem, err := text.NewStemmer(cfg.Stemmer, kb.Suffixes)
	if err != nil {
		logger.Fatal().Err(err).Msg("stemmer")
	}
	eng := service.NewEngine(kb, stem)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	cat, err := openCatalog(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.CatalogDriver).Msg("open catalog")
	}
	defer cat.close()

	m := service.NewMatcher(eng, cat.reader, service.Options{UseIndex: cfg.CandidateIndex, Logger: logger})
	r := serverhttp.NewRouter(cfg, logger, matchHnd.New(m, cat.mem, cfg.DefaultLimit, cfg.MaxUploadMB), cat.probe)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("driver", cfg.CatalogDriver).
		Str("stemmer", cfg.Stemmer).
		Int("product_types", len(kb.ProductTypes)).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}

type catalogSource struct {
	reader service.CatalogReader
	mem    *catalog.Memory // только для files: такие каталоги можно перезаливать через API
	probe  handlers.Probe
	close  func()
}

// openCatalog выбирает источник каталогов по CATALOG_DRIVER.
func openCatalog(ctx context.Context, cfg config.Config, logger zerolog.Logger) (catalogSource, error) {
	switch cfg.CatalogDriver {
	case config.DriverSQLite:
		db, err := catalog.OpenSQLite(ctx, cfg.CatalogPaths)
		if err != nil {
			return catalogSource{}, err
		}
		return catalogSource{
			reader: db,
			probe:  handlers.Probe{Ping: db.Ping},
			close:  func() { _ = db.Close() },
		}, nil
	case config.DriverPostgres:
		db, err := catalog.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return catalogSource{}, err
		}
		return catalogSource{
			reader: db,
			probe:  handlers.Probe{Ping: db.Ping},
			close:  func() { _ = db.Close() },
		}, nil
	default:
		mem := catalog.NewMemory()
		for _, store := range model.Stores {
			path := cfg.CatalogPaths[store]
			if path == "" {
				continue
			}
			if err := loadFile(mem, store, path); err != nil {
				return catalogSource{}, err
			}
			logger.Info().Str("store", string(store)).Str("file", path).Int("loaded", mem.Len(store)).Msg("catalog loaded")
		}
		return catalogSource{
			reader: mem,
			mem:    mem,
			probe:  handlers.Probe{Count: mem.Len},
			close:  func() {},
		}, nil
	}
}

func loadFile(mem *catalog.Memory, store model.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	recs, err := fileio.ReadCatalog(f, filepath.Base(path), store, fileio.DefaultMapping())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = mem.Replace(store, recs)
	return err
}
