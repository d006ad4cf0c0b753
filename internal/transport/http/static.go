package http

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	notFoundBody      = "Error 404: resource not found."
	defaultStaticRoot = "public"
)

// StaticFiles serves files from a directory and keeps their contents in memory
// after the first successful read. Files are never re-read while the process runs.
type StaticFiles struct {
	root string
	log  *zerolog.Logger

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewStaticFiles creates a cached file server rooted at root.
func NewStaticFiles(root string, logger *zerolog.Logger) *StaticFiles {
	if root == "" {
		root = defaultStaticRoot
	}
	return &StaticFiles{
		root:  root,
		log:   logger,
		cache: make(map[string][]byte),
	}
}

// Serve answers GET requests for files under root; "/" maps to index.html.
func (s *StaticFiles) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		s.notFound(c)
		return
	}

	rel := path.Clean("/" + c.Request.URL.Path)
	if rel == "/" {
		rel = "/index.html"
	}
	absPath := filepath.Join(s.root, filepath.FromSlash(rel))

	data, err := s.load(absPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", absPath).Msg("read static file")
		}
		s.notFound(c)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(absPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *StaticFiles) load(absPath string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.cache[absPath]
	s.mu.RUnlock()
	if ok {
		return data, nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fs.ErrNotExist
	}
	data, err = os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[absPath] = data
	s.mu.Unlock()
	return data, nil
}

func (s *StaticFiles) notFound(c *gin.Context) {
	c.Data(http.StatusNotFound, "text/plain; charset=utf-8", []byte(notFoundBody))
}
