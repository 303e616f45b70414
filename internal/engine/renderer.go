package engine

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shaiso/stencil/internal/domain"
)

// RenderDocument рендерит документ: сериализует его в текст и заменяет
// каждый токен %name% на значение плейсхолдера.
//
// Значения запроса (overrides) имеют приоритет над сохранёнными
// настройками. Кандидаты на подстановку — объединение каталога и имён,
// для которых есть значение; токен без значения заменяется пустой
// строкой. Строковые значения экранируются по правилам JSON, чтобы
// кавычки и обратные слэши в значении не ломали документ.
//
// Имена обрабатываются от длинных к коротким: токен %width% не
// затрагивает часть токена %width2%. Если после подстановки текст
// перестаёт быть валидным JSON, возвращается *RenderError.
func RenderDocument(doc *Document, overrides map[string]domain.Scalar, settings domain.Settings, catalog *Catalog) ([]byte, error) {
	serialized, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	replacements := make(map[string]domain.Scalar, len(settings.Placeholders)+len(overrides))
	for name, value := range settings.Placeholders {
		replacements[name] = value
	}
	for name, value := range overrides {
		replacements[name] = value
	}

	candidates := make(map[string]struct{}, catalog.Len()+len(replacements))
	for _, name := range catalog.Names() {
		candidates[name] = struct{}{}
	}
	for name := range replacements {
		candidates[name] = struct{}{}
	}

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	text := string(serialized)
	for _, name := range names {
		token := PlaceholderToken(name)
		if !strings.Contains(text, token) {
			continue
		}

		var replacement string
		if value, ok := replacements[name]; ok {
			if value.Kind == domain.ValueString {
				replacement = escapeJSONString(value.Str)
			} else {
				replacement = value.Text()
			}
		}
		text = strings.ReplaceAll(text, token, replacement)
	}

	rendered := []byte(text)
	var probe any
	if err := json.Unmarshal(rendered, &probe); err != nil {
		return nil, &RenderError{Err: err}
	}
	return rendered, nil
}

// escapeJSONString экранирует строку для вставки внутрь JSON-текста
// между уже существующими кавычками.
func escapeJSONString(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(encoded[1 : len(encoded)-1])
}
