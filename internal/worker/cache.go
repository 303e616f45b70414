package worker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache — файловый кэш готовых изображений.
//
// Имя файла детерминировано выводится из запроса, поэтому повторная
// генерация того же prompt в тех же размерах отдаёт готовый файл без
// обращения к сервису исполнения.
type Cache struct {
	dir    string
	format string
}

// NewCache создаёт кэш в указанном каталоге.
func NewCache(dir, format string) (*Cache, error) {
	if format == "" {
		format = "png"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, format: format}, nil
}

// Key возвращает имя файла кэша для запроса.
func (c *Cache) Key(prompt string, width, height int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%dx%d", prompt, width, height)))
	return hex.EncodeToString(sum[:]) + "." + c.format
}

// Lookup возвращает путь к готовому изображению, если оно есть в кэше.
func (c *Cache) Lookup(prompt string, width, height int) (string, bool) {
	path := filepath.Join(c.dir, c.Key(prompt, width, height))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Store записывает изображение в кэш и возвращает путь.
func (c *Cache) Store(prompt string, width, height int, data []byte) (string, error) {
	path := filepath.Join(c.dir, c.Key(prompt, width, height))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cache file: %w", err)
	}
	return path, nil
}

// Sweep удаляет файлы кэша старше maxAge.
// Возвращает число удалённых файлов.
func (c *Cache) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
