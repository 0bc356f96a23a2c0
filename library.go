package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
)

// MediaPath identifies a media file on disk or inside an archive.
type MediaPath struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

// Name returns the base name shown to the user.
func (p MediaPath) Name() string {
	if p.ArchivePath != "" {
		return filepath.Base(filepath.FromSlash(p.EntryPath))
	}
	return filepath.Base(p.Path)
}

// InArchive reports whether p is an archive entry.
func (p MediaPath) InArchive() bool {
	return p.ArchivePath != ""
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// PreloadRequest represents a request to preload neighbouring files
type PreloadRequest struct {
	Index     int
	Direction NavigationDirection
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize     int
	LoadedCount   int
	FailedCount   int
	LastDirection NavigationDirection
}

// Library is the ordered list of media files being browsed. It keeps the
// raw bytes of recently used and preloaded files in an LRU cache.
//
// Library is safe for concurrent use; the preload worker reads through it
// from its own goroutine.
type Library struct {
	mu    sync.RWMutex
	paths []MediaPath
	cache *lru.Cache[string, []byte]

	preloader *PreloadManager
}

// NewLibrary creates a library with a byte cache of cacheSize files. When
// preloadCount is positive a preload worker is started.
func NewLibrary(paths []MediaPath, cacheSize, preloadCount int) *Library {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.New[string, []byte](16)
	}
	l := &Library{paths: paths, cache: cache}
	if preloadCount > 0 {
		l.preloader = NewPreloadManager(l, preloadCount)
	}
	return l
}

// Len returns the number of files.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.paths)
}

// Path returns the file at idx.
func (l *Library) Path(idx int) (MediaPath, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if idx < 0 || idx >= len(l.paths) {
		return MediaPath{}, false
	}
	return l.paths[idx], true
}

// Remove drops the file at idx from the list and the cache.
func (l *Library) Remove(idx int) {
	l.mu.Lock()
	if idx < 0 || idx >= len(l.paths) {
		l.mu.Unlock()
		return
	}
	p := l.paths[idx]
	l.paths = append(l.paths[:idx:idx], l.paths[idx+1:]...)
	l.mu.Unlock()
	l.cache.Remove(p.Path)
}

// Read returns the bytes of the file at idx, from the cache when possible.
func (l *Library) Read(idx int) ([]byte, error) {
	p, ok := l.Path(idx)
	if !ok {
		return nil, fmt.Errorf("index %d out of range", idx)
	}
	if data, ok := l.cache.Get(p.Path); ok {
		debugLog("Cache HIT: %s (cache: %d items)", p.Path, l.cache.Len())
		return data, nil
	}
	data, err := readMedia(p)
	if err != nil {
		return nil, err
	}
	l.cache.Add(p.Path, data)
	debugLog("Cache MISS: %s, read %d bytes (cache: %d items)", p.Path, len(data), l.cache.Len())
	return data, nil
}

// Cached reports whether the bytes of the file at idx are cached.
func (l *Library) Cached(idx int) bool {
	p, ok := l.Path(idx)
	return ok && l.cache.Contains(p.Path)
}

// StartPreload asks the worker to read the neighbours of idx.
func (l *Library) StartPreload(idx int, direction NavigationDirection) {
	if l.preloader != nil {
		l.preloader.StartPreload(idx, direction)
	}
}

// PreloadStats returns the worker statistics.
func (l *Library) PreloadStats() PreloadStats {
	if l.preloader != nil {
		return l.preloader.GetStats()
	}
	return PreloadStats{}
}

// Close stops the preload worker.
func (l *Library) Close() {
	if l.preloader != nil {
		l.preloader.Stop()
	}
}

// PreloadManager reads neighbouring files into the library cache in the
// background so navigation does not wait on disk or archive access.
type PreloadManager struct {
	requestChan chan PreloadRequest
	ctx         context.Context
	cancel      context.CancelFunc
	library     *Library
	mu          sync.RWMutex
	stats       PreloadStats
	maxPreload  int
}

// NewPreloadManager creates a PreloadManager and starts its worker.
func NewPreloadManager(library *Library, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan: make(chan PreloadRequest, 100),
		ctx:         ctx,
		cancel:      cancel,
		library:     library,
		maxPreload:  maxPreload,
	}
	go pm.worker()
	return pm
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	s := pm.stats
	s.QueueSize = len(pm.requestChan)
	return s
}

// Stop stops the preload manager
func (pm *PreloadManager) Stop() {
	pm.cancel()
}

// StartPreload replaces any pending request with one for currentIdx.
func (pm *PreloadManager) StartPreload(currentIdx int, direction NavigationDirection) {
drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Index: currentIdx, Direction: direction}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			pm.processPreloadRequest(req)
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	count := pm.library.Len()
	if count == 0 {
		return
	}
	for _, idx := range pm.calculatePreloadIndices(req.Index, req.Direction, count) {
		select {
		case <-pm.ctx.Done():
			return
		default:
			pm.preload(idx)
		}
	}
}

// calculatePreloadIndices returns the indices to read after a move to
// currentIdx. Navigation wraps around, so neighbours do too.
func (pm *PreloadManager) calculatePreloadIndices(currentIdx int, direction NavigationDirection, count int) []int {
	seen := map[int]bool{currentIdx: true}
	var indices []int
	add := func(idx int) {
		idx = ((idx % count) + count) % count
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}

	switch direction {
	case NavigationForward:
		for i := 1; i <= pm.maxPreload; i++ {
			add(currentIdx + i)
		}
	case NavigationBackward:
		for i := 1; i <= pm.maxPreload; i++ {
			add(currentIdx - i)
		}
	case NavigationJump:
		half := max(pm.maxPreload/2, 1)
		for i := 1; i <= half; i++ {
			add(currentIdx + i)
			add(currentIdx - i)
		}
	}
	return indices
}

func (pm *PreloadManager) preload(idx int) {
	if pm.library.Cached(idx) {
		return
	}
	if _, err := pm.library.Read(idx); err != nil {
		pm.mu.Lock()
		pm.stats.FailedCount++
		pm.mu.Unlock()
		debugLog("Preload failed for [%d]: %v", idx+1, err)
		return
	}
	pm.mu.Lock()
	pm.stats.LoadedCount++
	pm.mu.Unlock()
	debugLog("Preloaded [%d]", idx+1)
}

// Reading files

func readMedia(p MediaPath) ([]byte, error) {
	if !p.InArchive() {
		return os.ReadFile(p.Path)
	}
	switch ext := strings.ToLower(filepath.Ext(p.ArchivePath)); ext {
	case ".zip":
		return readFromZip(p.ArchivePath, p.EntryPath)
	case ".rar":
		return readFromRar(p.ArchivePath, p.EntryPath)
	case ".7z":
		return readFrom7z(p.ArchivePath, p.EntryPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func readFromZip(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readFromRar(archivePath, entryPath string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readFrom7z(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

// Collecting files

func archiveEntry(archivePath, name string) MediaPath {
	return MediaPath{
		Path:        archivePath + ":" + name,
		ArchivePath: archivePath,
		EntryPath:   name,
	}
}

func listZip(archivePath string) ([]MediaPath, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var media []MediaPath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			media = append(media, archiveEntry(archivePath, f.Name))
		}
	}
	return media, nil
}

func listRar(archivePath string) ([]MediaPath, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}
	var media []MediaPath
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			media = append(media, archiveEntry(archivePath, header.Name))
		}
	}
	return media, nil
}

func list7z(archivePath string) ([]MediaPath, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var media []MediaPath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			media = append(media, archiveEntry(archivePath, f.Name))
		}
	}
	return media, nil
}

func processArchive(archivePath string) ([]MediaPath, error) {
	var (
		entries []MediaPath
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(archivePath)); ext {
	case ".zip":
		entries, err = listZip(archivePath)
	case ".rar":
		entries, err = listRar(archivePath)
	case ".7z":
		entries, err = list7z(archivePath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", archivePath, err)
	}
	return entries, nil
}

// collectFromSameDirectory lists the media files next to filePath. It does
// not descend into subdirectories or archives.
func collectFromSameDirectory(filePath string, sortMethod int) ([]MediaPath, error) {
	dir := filepath.Dir(filePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var media []MediaPath
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if isSupportedExt(fullPath) {
			media = append(media, MediaPath{Path: fullPath})
		}
	}
	return sortMediaPaths(media, sortMethod), nil
}

// collectMedia expands the command line arguments into a file list.
// Directories are walked recursively. Unreadable archives are skipped with
// a warning.
func collectMedia(args []string, sortMethod int) ([]MediaPath, error) {
	var list []MediaPath
	addArchive := func(path string, into *[]MediaPath) {
		entries, err := processArchive(path)
		if err != nil {
			log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
			return
		}
		*into = append(*into, sortMediaPaths(entries, sortMethod)...)
	}

	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if isSupportedExt(p) {
				list = append(list, MediaPath{Path: p})
			} else if isArchiveExt(p) {
				addArchive(p, &list)
			}
			continue
		}

		var dirMedia []MediaPath
		err = filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if isSupportedExt(path) {
				dirMedia = append(dirMedia, MediaPath{Path: path})
			} else if isArchiveExt(path) {
				addArchive(path, &dirMedia)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		list = append(list, sortMediaPaths(dirMedia, sortMethod)...)
	}
	return list, nil
}
