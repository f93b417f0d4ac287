package session

import (
	"os"
	"path/filepath"
	"time"
)

// BaseDir returns ~/.modernchat, or $MODERNCHAT_HOME when set.
func BaseDir() string {
	if dir := os.Getenv("MODERNCHAT_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".modernchat")
}

// Dir returns the session-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "sessions", name)
}

// LockPath returns the lock file path for a session.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// DBPath returns the sqlite key-value store path.
func DBPath(name string) string {
	return filepath.Join(Dir(name), "modernchat.db")
}

// KVDir returns the pebble key-value store directory.
func KVDir(name string) string {
	return filepath.Join(Dir(name), "kv")
}

// LogDir returns the log directory for a session.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the session log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "modernchat.log")
}

// BackupDir returns the directory exports are written to by default.
func BackupDir(name string) string {
	return filepath.Join(Dir(name), "backups")
}

// BackupName returns the default export file name for the given day.
func BackupName(t time.Time) string {
	return "modernchat-backup-" + t.Format("2006-01-02") + ".json"
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the session directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
		BackupDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
