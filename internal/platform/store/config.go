package store

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "chemload/internal/platform/errors"

	"github.com/go-sql-driver/mysql"
)

// Supported driver names after normalization
const (
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DriverSQLServer  = "sqlserver"
	DriverMySQL      = "mysql"
	DriverClickHouse = "clickhouse"
)

var driverAliases = map[string]string{
	"postgres":   DriverPostgres,
	"postgresql": DriverPostgres,
	"pg":         DriverPostgres,
	"pgx":        DriverPostgres,
	"sqlite":     DriverSQLite,
	"sqlite3":    DriverSQLite,
	"sqlserver":  DriverSQLServer,
	"mssql":      DriverSQLServer,
	"mysql":      DriverMySQL,
	"mariadb":    DriverMySQL,
	"clickhouse": DriverClickHouse,
	"ch":         DriverClickHouse,
}

// NormalizeDriver maps a user supplied driver name onto one of the Driver constants
func NormalizeDriver(name string) (string, error) {
	if d, ok := driverAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return "", perr.InvalidArgf("store: unsupported driver %q", name)
}

// Config configures the single backend a Store opens
type Config struct {
	AppName string

	Driver string
	// URL wins over the discrete fields below when set
	URL string

	Host     string
	Port     int
	Name     string // database name, or the file path for sqlite
	User     string
	Password string

	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// open and ping knobs:
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// DSN returns the connection string for driver, building one from the
// discrete fields when URL is empty
func (c Config) DSN(driver string) string {
	if c.URL != "" {
		return c.URL
	}

	switch driver {
	case DriverSQLite:
		return c.Name
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.hostPort(3306)
		mc.DBName = c.Name
		return mc.FormatDSN()
	case DriverSQLServer:
		u := url.URL{Scheme: "sqlserver", Host: c.hostPort(1433)}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		if c.Name != "" {
			q := u.Query()
			q.Set("database", c.Name)
			u.RawQuery = q.Encode()
		}
		return u.String()
	case DriverClickHouse:
		u := url.URL{Scheme: "clickhouse", Host: c.hostPort(9000), Path: "/" + c.Name}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		return u.String()
	default:
		u := url.URL{Scheme: "postgres", Host: c.hostPort(5432), Path: "/" + c.Name}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		return u.String()
	}
}

func (c Config) hostPort(defPort int) string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port <= 0 {
		port = defPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (c Config) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return 20
}

func (c Config) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return 3 * time.Second
}
