// internal/config/constants.go
package config

import (
	"strings"
	"time"
)

// アプリケーション情報
const (
	AppName    = "sight-reader"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort           = ":8080"
	DefaultLogLevel             = "info"
	DefaultContentDir           = "public/content"
	DefaultImagesDir            = "public/story-images"
	DefaultDatabaseDriver       = "sqlite"
	DefaultSQLitePath           = "sight_reader.db"
	DefaultSessionIdleTTL       = 2 * time.Hour
	DefaultSessionSweepInterval = 10 * time.Minute
	DefaultTokenTTL             = 12 * time.Hour
	DefaultLoginRPS             = 0.2 // 5秒に1回
	DefaultLoginBurst           = 5
	DefaultAuthEnabled          = false
	DefaultUploadMaxBytes       = 10 << 20 // 10MB
)

var envKeyReplacer = strings.NewReplacer(".", "_")
