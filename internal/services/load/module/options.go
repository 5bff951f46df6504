package module

import (
	"time"

	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/platform/config"
	"chemload/internal/platform/store"
	"chemload/internal/platform/validate"
	"chemload/internal/services/load/domain"
	"chemload/internal/services/load/service"
)

// Options holds configuration options for the load module
type Options struct {
	Table           string `env:"TABLE" validate:"omitempty,sql_ident,max=63"`
	Layout          string `env:"LAYOUT" validate:"oneof=structure-id id-structure"`
	Compression     string `env:"COMPRESSION" validate:"oneof=auto gzip gz zstd zst xz none plain raw"`
	Encoding        string `env:"ENCODING"`
	ProgressEvery   int    `env:"PROGRESS_EVERY" validate:"min=1"`
	Progress        string `env:"PROGRESS" validate:"oneof=log stdout none"`
	IDLength        int    `env:"ID_LENGTH" validate:"min=1,max=4000"`
	StructureLength int    `env:"STRUCTURE_LENGTH" validate:"min=1"`
	MaxLineBytes    int    `env:"MAX_LINE_BYTES" validate:"min=1024"`
	AtomicDDL       bool   `env:"ATOMIC_DDL"`
	AsyncCommit     bool   `env:"ASYNC_COMMIT"`
}

// FromConfig reads the load options from config with LOAD_ prefix
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("LOAD_")
	return Options{
		Table:           lc.MayString("TABLE", ""),
		Layout:          lc.MayString("LAYOUT", string(compound.LayoutStructureID)),
		Compression:     lc.MayString("COMPRESSION", string(compound.CompressionAuto)),
		Encoding:        lc.MayString("ENCODING", ""),
		ProgressEvery:   lc.MayInt("PROGRESS_EVERY", service.DefaultProgressEvery),
		Progress:        lc.MayEnum("PROGRESS", "stdout", "stdout", "log", "none"),
		IDLength:        lc.MayInt("ID_LENGTH", domain.DefaultIDLength),
		StructureLength: lc.MayInt("STRUCTURE_LENGTH", domain.DefaultStructureLength),
		MaxLineBytes:    lc.MayBytes("MAX_LINE_BYTES", compound.DefaultMaxLineBytes),
		AtomicDDL:       lc.MayBool("ATOMIC_DDL", false),
		AsyncCommit:     lc.MayBool("ASYNC_COMMIT", false),
	}
}

// Validate checks opts against their struct tags
func (o Options) Validate() error { return validate.Struct(o) }

// ReaderOptions is the compound reader view of o
func (o Options) ReaderOptions() compound.Options {
	return compound.Options{
		Layout:       compound.Layout(o.Layout),
		Compression:  compound.Compression(o.Compression),
		Encoding:     o.Encoding,
		MaxLineBytes: o.MaxLineBytes,
	}
}

// DBOptions holds the connection settings read from DB_ keys
type DBOptions struct {
	Driver   string `env:"DRIVER" validate:"omitempty,oneof=postgres postgresql pg pgx sqlite sqlite3 sqlserver mssql mysql mariadb clickhouse ch"`
	URL      string `env:"URL"`
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" validate:"omitempty,min=1,max=65535"`
	Name     string `env:"NAME"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`

	MaxConns       int           `env:"MAX_CONNS" validate:"min=0,max=1000"`
	LogSQL         bool          `env:"LOG_SQL"`
	SlowMs         int           `env:"SLOW_MS"`
	ConnectRetries int           `env:"CONNECT_RETRIES" validate:"min=1"`
	PingTimeout    time.Duration `env:"PING_TIMEOUT" validate:"min=0"`
}

// DBFromConfig reads connection settings with DB_ prefix
func DBFromConfig(cfg config.Conf) DBOptions {
	dc := cfg.Prefix("DB_")
	return DBOptions{
		Driver:         dc.MayString("DRIVER", ""),
		URL:            dc.MayString("URL", ""),
		Host:           dc.MayString("HOST", ""),
		Port:           dc.MayInt("PORT", 0),
		Name:           dc.MayString("NAME", ""),
		User:           dc.MayString("USER", ""),
		Password:       dc.MayString("PASSWORD", ""),
		MaxConns:       dc.MayInt("MAX_CONNS", 4),
		LogSQL:         dc.MayBool("LOG_SQL", false),
		SlowMs:         dc.MayInt("SLOW_MS", 500),
		ConnectRetries: dc.MayInt("CONNECT_RETRIES", 20),
		PingTimeout:    dc.MayDuration("PING_TIMEOUT", 3*time.Second),
	}
}

// Validate checks opts against their struct tags
func (o DBOptions) Validate() error { return validate.Struct(o) }

// Store converts o into the store config for app
func (o DBOptions) Store(app string) store.Config {
	return store.Config{
		AppName:        app,
		Driver:         o.Driver,
		URL:            o.URL,
		Host:           o.Host,
		Port:           o.Port,
		Name:           o.Name,
		User:           o.User,
		Password:       o.Password,
		MaxConns:       int32(o.MaxConns),
		LogSQL:         o.LogSQL,
		SlowQueryMs:    o.SlowMs,
		ConnectRetries: o.ConnectRetries,
		PingTimeout:    o.PingTimeout,
	}
}
