package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const PER_PAGE = 6
const sessionName = "session"

var logger = logrus.New()

func initLogger() {
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	if addr := os.Getenv("LOGSTASH_ADDR"); addr != "" {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to logstash, logging to stdout only")
			return
		}
		hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": "blogr"}))
		logger.AddHook(hook)
	}
}

func afterRequestLogging(start time.Time, r *http.Request) {
	// Check if a request takes longer than 2 seconds

	duration := time.Since(start)

	if duration > 2*time.Second {
		logger.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"duration":  duration,
			"remote_ip": r.RemoteAddr,
		}).Warn("Slow request detected")
	} else {
		logger.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"duration":  duration,
			"remote_ip": r.RemoteAddr,
		}).Info("Request completed quickly")
	}
}

// App carries the shared persistence handle and everything the handlers
// need. Connection lifecycle is owned by main, not by package globals.
type App struct {
	db      *gorm.DB
	store   *sessions.CookieStore
	metrics *Metrics

	identity     *Identity
	content      *Content
	interactions *Interactions

	uploadDir string
}

func connectDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")

	if host == "" {
		dbPath := os.Getenv("DATABASE")
		if dbPath == "" {
			dbPath = "blog.db"
		}
		logger.WithField("path", dbPath).Info("Connecting to SQLite database")
		return gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	}

	// postgresql remote
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=require",
		host,
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
	)
	logger.WithField("host", host).Info("Connecting to PostgreSQL database")
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

var defaultCategories = []string{"general", "politics", "religion", "sport", "entertainment", "Naija gist"}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Category{},
		&Post{},
		&Comment{},
		&Reply{},
		&PostLike{},
		&CommentLike{},
	)
	if err != nil {
		return err
	}

	for _, name := range defaultCategories {
		if err := db.Where(Category{Name: name}).FirstOrCreate(&Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func NewApp(db *gorm.DB) *App {
	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "dev_secret_key"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 16, // 16 hours
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "static/uploads/media"
	}

	return &App{
		db:           db,
		store:        store,
		metrics:      InitMetrics(),
		identity:     &Identity{db: db},
		content:      &Content{db: db},
		interactions: &Interactions{db: db},
		uploadDir:    uploadDir,
	}
}
