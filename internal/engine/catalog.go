package engine

import (
	"sort"
	"strings"
)

// DefaultPlaceholders — встроенный список имён, действующий до первого
// сохранения каталога.
var DefaultPlaceholders = []string{
	"prompt",
	"negative_prompt",
	"model",
	"vae",
	"sampler",
	"scheduler",
	"steps",
	"cfg",
	"denoise",
	"clip_skip",
	"width",
	"height",
	"seed",
	"img_format",
	"lora",
	"lora_1",
	"lora_2",
}

// Catalog — глобальный каталог имён плейсхолдеров.
//
// Каталог определяет, какие токены %name% распознаются при извлечении
// полей и при рендере. Имена чувствительны к регистру; для отображения
// список сортируется без учёта регистра.
type Catalog struct {
	names []string
	index map[string]struct{}
}

// NewCatalog создаёт каталог из списка имён.
// Пустые и повторяющиеся имена отбрасываются, порядок сохраняется.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := c.index[name]; ok {
			continue
		}
		c.names = append(c.names, name)
		c.index[name] = struct{}{}
	}
	return c
}

// DefaultCatalog создаёт каталог со встроенным списком имён.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultPlaceholders)
}

// Contains возвращает true, если имя есть в каталоге.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len возвращает число имён в каталоге.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names возвращает копию списка имён, отсортированную без учёта
// регистра; исходный регистр имён сохраняется.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Add добавляет имя в каталог.
// Пустое имя — ErrEmptyName, существующее — ErrDuplicateName.
func (c *Catalog) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := c.index[name]; ok {
		return ErrDuplicateName
	}
	c.names = append(c.names, name)
	c.index[name] = struct{}{}
	return nil
}

// Remove удаляет имя из каталога.
// Отсутствующее имя — ErrUnknownName.
func (c *Catalog) Remove(name string) error {
	name = strings.TrimSpace(name)
	if _, ok := c.index[name]; !ok {
		return ErrUnknownName
	}
	delete(c.index, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return nil
}

// PlaceholderToken возвращает литеральный токен "%name%".
func PlaceholderToken(name string) string {
	return "%" + name + "%"
}

// parseToken возвращает имя из строки вида "%name%".
// Строка обязана целиком быть токеном; крайние знаки процента
// срезаются с обеих сторон.
func parseToken(s string) (string, bool) {
	if len(s) < 2 || !strings.HasPrefix(s, "%") || !strings.HasSuffix(s, "%") {
		return "", false
	}
	name := strings.Trim(s, "%")
	if name == "" {
		return "", false
	}
	return name, true
}

// isToken возвращает true для строки, целиком являющейся токеном.
func isToken(s string) bool {
	_, ok := parseToken(s)
	return ok
}
