package controller

import (
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"todolist/pkg/logger"

	"github.com/gin-gonic/gin"
)

const pageTitle = "Todo"

// Pages serves the page shell, the bundled assets and the third-party library directory.
type Pages struct {
	templates *template.Template
	static    fs.FS
	libDir    string
}

// NewPages serves files under libDir at /lib. libDir need not exist yet; missing files answer 404.
func NewPages(templates *template.Template, static fs.FS, libDir string) (*Pages, error) {
	abs, err := filepath.Abs(libDir)
	if err != nil {
		return nil, err
	}
	return &Pages{templates: templates, static: static, libDir: abs}, nil
}

// Templates returns the parsed page templates for the router.
func (p *Pages) Templates() *template.Template {
	return p.templates
}

// StaticFS returns the bundled assets. Directories are reported missing so no listing is served.
func (p *Pages) StaticFS() http.FileSystem {
	return http.FS(filesOnly{p.static})
}

type filesOnly struct {
	fsys fs.FS
}

func (f filesOnly) Open(name string) (fs.File, error) {
	file, err := f.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return file, nil
}

// Index renders the single page app shell.
func (p *Pages) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": pageTitle})
}

// Lib serves one file from the library directory.
func (p *Pages) Lib(c *gin.Context) {
	full, ok := resolveLibPath(p.libDir, c.Param("filepath"))
	if !ok {
		logger.Debug(c.Request.Context(), "Rejected library path", "path", c.Param("filepath"))
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	f, err := os.Open(full)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer f.Close()
	// ServeContent, unlike c.File, never redirects ".../index.html" to its directory.
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// resolveLibPath maps a request path onto a file inside root. It refuses anything that
// could leave root: ".." segments, NUL bytes, and symlinks pointing outside.
func resolveLibPath(root, name string) (string, bool) {
	name = strings.TrimLeft(filepath.ToSlash(name), "/")
	if name == "" || strings.ContainsRune(name, 0) || strings.Contains(name, `\`) {
		return "", false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", false
		}
	}
	full := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, full) {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		// Missing files are reported by the caller's stat.
		return full, true
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", false
	}
	if !within(realRoot, resolved) {
		return "", false
	}
	return resolved, true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
