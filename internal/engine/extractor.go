package engine

import (
	"sort"

	"github.com/shaiso/stencil/internal/domain"
)

// nodeEntry группирует поля одной ноды при извлечении.
type nodeEntry struct {
	nodeID string
	title  string
	order  int // 0 — порядок не сохранён
	seq    int // порядок первого появления в документе
	fields []domain.Field
}

// ExtractFields строит упорядоченный список редактируемых полей.
//
// Поле — каждый скалярный вход каждой ноды; соединения нод (массивы),
// объекты и булевы значения полями не становятся. Тип поля выводится
// из текущего значения в документе. Вход, чей текст целиком является
// токеном "%name%" с именем из каталога, считается привязанным к
// плейсхолдеру.
//
// Порядок нод восстанавливается из ключей хранения настроек; ноды без
// сохранённого порядка получают его по первому появлению в документе.
// Первое поле каждой ноды помечается как primary и несёт отображаемое
// имя ноды.
func ExtractFields(doc *Document, settings domain.Settings, catalog *Catalog) []domain.Field {
	fieldDefaults := make(map[string]domain.Scalar)
	nodeOrders := make(map[string]int)

	for _, key := range sortedKeys(settings.Fields) {
		parsed := DecodeFieldKey(key)
		if parsed.IsZero() {
			continue
		}
		base := parsed.NodeID + fieldKeySeparator + parsed.InputName
		fieldDefaults[base] = settings.Fields[key]
		if parsed.Order != 0 {
			if _, ok := nodeOrders[parsed.NodeID]; !ok {
				nodeOrders[parsed.NodeID] = normalizeOrder(parsed.Order, len(nodeOrders)+1)
			}
		}
	}

	var entries []*nodeEntry
	byNode := make(map[string]*nodeEntry)

	for _, node := range doc.Nodes() {
		for _, input := range node.Inputs {
			field := buildField(node, input, settings, catalog, fieldDefaults)

			entry, ok := byNode[node.ID]
			if !ok {
				entry = &nodeEntry{
					nodeID: node.ID,
					title:  node.Title,
					order:  nodeOrders[node.ID],
					seq:    len(entries) + 1,
				}
				entries = append(entries, entry)
				byNode[node.ID] = entry
			}
			entry.fields = append(entry.fields, field)
		}
	}

	for idx, entry := range entries {
		entry.order = normalizeOrder(entry.order, idx+1)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].seq < entries[j].seq
	})

	fields := make([]domain.Field, 0, len(entries))
	for _, entry := range entries {
		for i := range entry.fields {
			entry.fields[i].Order = entry.order
			if i == 0 {
				entry.fields[i].IsPrimary = true
				entry.fields[i].DisplayTitle = entry.title
			}
			fields = append(fields, entry.fields[i])
		}
	}
	return fields
}

// buildField собирает одно поле из входа ноды.
func buildField(node *domain.Node, input domain.Input, settings domain.Settings, catalog *Catalog, defaults map[string]domain.Scalar) domain.Field {
	field := domain.Field{
		NodeID:    node.ID,
		NodeTitle: node.Title,
		InputName: input.Name,
		ClassType: node.ClassType,
		Type:      input.Value.Kind,
	}

	// Привязка к плейсхолдеру: текст входа целиком токен, имя в каталоге.
	if input.Value.Kind == domain.ValueString {
		if name, ok := parseToken(input.Value.Str); ok && catalog.Contains(name) {
			field.Placeholder = name
		}
	}

	stored, hasStored := defaults[node.ID+fieldKeySeparator+input.Name]
	if field.Placeholder != "" {
		if def, ok := settings.Placeholders[field.Placeholder]; ok {
			stored, hasStored = def, true
		}
	}
	if !hasStored {
		stored = input.Value
	}

	storedText := stored.Text()
	// Токен в качестве сохранённого значения эквивалентен его отсутствию:
	// подставлять %name% вместо самого себя бессмысленно.
	if field.Placeholder != "" && isToken(storedText) {
		storedText = ""
	}

	field.StoredValue = storedText
	if field.Placeholder != "" {
		field.TextValue = PlaceholderToken(field.Placeholder)
	} else {
		field.TextValue = storedText
	}
	return field
}

// normalizeOrder подставляет fallback вместо отсутствующего порядка
// и приводит результат к допустимому диапазону.
func normalizeOrder(order, fallback int) int {
	if order == 0 {
		order = fallback
	}
	return domain.ClampOrder(order)
}

// sortedKeys возвращает ключи карты в лексикографическом порядке,
// чтобы извлечение было детерминированным.
func sortedKeys(m map[string]domain.Scalar) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
