package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of calendar dates stored in records (payment dates, issue dates).
const DateLayout = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests,
// so walk up until we find it. Falls back to the working directory for installed binaries.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}

// NewID returns `prefix` followed by the unix milliseconds of `now`.
// A short random suffix is appended when `taken` reports a collision.
func NewID(prefix string, now time.Time, taken func(id string) bool) string {
	id := prefix + strconv.FormatInt(now.UnixNano()/int64(time.Millisecond), 10)
	for taken != nil && taken(id) {
		id = prefix + strconv.FormatInt(now.UnixNano()/int64(time.Millisecond), 10) + "-" + uuid.NewString()[:8]
	}
	return id
}
