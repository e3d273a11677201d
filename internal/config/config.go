package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"price-match/internal/match/model"
)

const (
	DriverFiles    = "files"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string // пусто: только консоль
	MaxUploadMB  int

	KnowledgeFile  string // пусто: встроенные справочники
	Stemmer        string // suffix | snowball
	CandidateIndex bool
	DefaultLimit   int

	CatalogDriver string                 // files | sqlite | postgres
	CatalogPaths  map[model.Store]string // файл выгрузки или база SQLite на магазин
	PostgresDSN   string
}

func Load() Config {
	driver := strings.ToLower(getenv("CATALOG_DRIVER", DriverFiles))

	// у сборщиков базы называются так
	def5ka, defMagnit := "", ""
	if driver == DriverSQLite {
		def5ka, defMagnit = "products.db", "products_magnit.db"
	}

	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         atoi(getenv("PORT", "8082"), 8082),
		AllowOrigins: splitList(getenv("ALLOW_ORIGINS", "*")),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/price-match.log"),
		MaxUploadMB:  atoi(getenv("MAX_UPLOAD_MB", "64"), 64),

		KnowledgeFile:  getenv("KNOWLEDGE_FILE", ""),
		Stemmer:        strings.ToLower(getenv("STEMMER", "suffix")),
		CandidateIndex: toBool(getenv("CANDIDATE_INDEX", "true"), true),
		DefaultLimit:   atoi(getenv("DEFAULT_LIMIT", "6"), 6),

		CatalogDriver: driver,
		CatalogPaths: map[model.Store]string{
			model.Store5ka:    getenv("CATALOG_5KA", def5ka),
			model.StoreMagnit: getenv("CATALOG_MAGNIT", defMagnit),
		},
		PostgresDSN: getenv("POSTGRES_DSN", ""),
	}
}

// Validate проверяет то, без чего сервис не стартует.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be > 0")
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("DEFAULT_LIMIT must be > 0")
	}
	switch c.CatalogDriver {
	case DriverFiles, DriverSQLite:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown CATALOG_DRIVER %q", c.CatalogDriver)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
