package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"roombooking/internal/core/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	// Logger receives gorm's SQL log when set; otherwise gorm logs to stdout.
	Logger *zap.Logger
}

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		if o.Logger != nil {
			o.Logger.Debug("mysql dsn", zap.String("dsn", maskDSN(dsn)))
		}
		dial = mysql.Open(dsn)
	case "sqlite":
		dial = sqlite.Open(o.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: newGormLogger(o.Logger, o.LogLevel)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	db = db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true, // transactions are opened explicitly by the repos
	})
	return db, nil
}

func newGormLogger(l *zap.Logger, level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	if l == nil {
		return gormlogger.Default.LogMode(lvl)
	}
	std, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		return gormlogger.Default.LogMode(lvl)
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	if colon := strings.Index(dsn[:at], ":"); colon > 0 {
		return dsn[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}

// normalizeMySQLDSN turns a mysql:// or jdbc:mysql:// URL into go-sql-driver
// syntax (user:pass@tcp(host:port)/db?...). Native DSNs pass through unchanged.
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return in
	}
	in = strings.TrimPrefix(in, "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}

	u, err := url.Parse(in)
	if err != nil {
		return in
	}

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	if v := q.Get("user"); v != "" {
		user = v
	}
	if v := q.Get("password"); v != "" {
		pass = v
	}
	q.Del("user")
	q.Del("password")
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	// JDBC-only parameters
	if q.Get("characterEncoding") != "" && q.Get("charset") == "" {
		q.Set("charset", q.Get("characterEncoding"))
	}
	q.Del("characterEncoding")
	q.Del("useUnicode")
	q.Del("zeroDateTimeBehavior")

	if v := strings.ToLower(q.Get("useSSL")); v != "" {
		switch v {
		case "true", "1":
			q.Set("tls", "true")
		case "skip-verify", "preferred":
			q.Set("tls", v)
		default:
			q.Set("tls", "false")
		}
		q.Del("useSSL")
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
		q.Del("serverTimezone")
	}

	// booking times are scanned into time.Time
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}
