package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shaiso/stencil/internal/domain"
)

// Document — разобранный node-graph документ.
//
// Хранит два представления одновременно: типизированные ноды со
// скалярными входами в порядке следования в тексте и полное
// декодированное дерево для обратной сериализации. Движку не нужна
// полная схема нод — неизвестные ключи переживают цикл
// разбор → изменение → сериализация без потерь.
type Document struct {
	nodes []*domain.Node
	byID  map[string]*domain.Node
	tree  map[string]any
}

// ParseDocument разбирает сырой JSON node-graph документа.
//
// Верхний уровень обязан быть объектом "id ноды → нода"; иначе
// возвращается ErrNotObject. Числа сохраняются как json.Number,
// поэтому литералы "20" и "20.0" различимы и воспроизводятся
// при сериализации байт в байт.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, ErrNotObject
		}
		return nil, fmt.Errorf("parse document: %w", err)
	}

	nodeIDs, inputOrder, err := scanOrder(data)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &Document{
		tree: tree,
		byID: make(map[string]*domain.Node, len(nodeIDs)),
	}

	for _, id := range nodeIDs {
		raw, ok := tree[id].(map[string]any)
		if !ok {
			continue
		}

		node := &domain.Node{ID: id, Title: id}
		if ct, ok := raw["class_type"].(string); ok {
			node.ClassType = ct
		}
		if meta, ok := raw["_meta"].(map[string]any); ok {
			if title, ok := meta["title"].(string); ok && title != "" {
				node.Title = title
			}
		}

		inputs, _ := raw["inputs"].(map[string]any)
		for _, name := range inputOrder[id] {
			value, ok := domain.ScalarFromAny(inputs[name])
			if !ok {
				continue
			}
			node.Inputs = append(node.Inputs, domain.Input{Name: name, Value: value})
		}

		doc.nodes = append(doc.nodes, node)
		doc.byID[id] = node
	}

	return doc, nil
}

// Nodes возвращает ноды в порядке следования в документе.
func (d *Document) Nodes() []*domain.Node {
	return d.nodes
}

// Node возвращает ноду по идентификатору.
func (d *Document) Node(id string) (*domain.Node, bool) {
	node, ok := d.byID[id]
	return node, ok
}

// SetInput записывает значение входа ноды в дерево документа.
// Неизвестная нода или вход без карты inputs — ошибка.
func (d *Document) SetInput(nodeID, inputName string, value domain.Scalar) error {
	raw, ok := d.tree[nodeID].(map[string]any)
	if !ok {
		return fmt.Errorf("node %q not found", nodeID)
	}
	inputs, ok := raw["inputs"].(map[string]any)
	if !ok {
		return fmt.Errorf("node %q has no inputs", nodeID)
	}
	inputs[inputName] = value.Value()

	if node, ok := d.byID[nodeID]; ok {
		for i := range node.Inputs {
			if node.Inputs[i].Name == inputName {
				node.Inputs[i].Value = value
				break
			}
		}
	}
	return nil
}

// MarshalJSON сериализует дерево документа обратно в JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.tree)
}

// scanOrder собирает порядок нод и порядок входов каждой ноды
// прямым проходом по токенам: карты Go не сохраняют порядок ключей,
// а порядок появления определяет нумерацию полей.
func scanOrder(data []byte) (nodeIDs []string, inputOrder map[string][]string, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	inputOrder = make(map[string][]string)

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, ErrNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		nodeID := tok.(string)
		nodeIDs = append(nodeIDs, nodeID)

		names, err := scanNodeInputs(dec)
		if err != nil {
			return nil, nil, err
		}
		inputOrder[nodeID] = names
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return nodeIDs, inputOrder, nil
}

// scanNodeInputs читает значение ноды и возвращает имена ключей её
// объекта "inputs" в порядке следования. Не-объекты пропускаются.
func scanNodeInputs(dec *json.Decoder) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, skipAfterToken(dec, tok)
	}

	var names []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		if key != "inputs" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		inDelim, ok := valTok.(json.Delim)
		if !ok || inDelim != '{' {
			if err := skipAfterToken(dec, valTok); err != nil {
				return nil, err
			}
			continue
		}
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			names = append(names, nameTok.(string))
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return names, nil
}

// skipValue пропускает следующее значение целиком.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	return skipAfterToken(dec, tok)
}

// skipAfterToken дочитывает значение, первый токен которого уже прочитан.
func skipAfterToken(dec *json.Decoder, tok json.Token) error {
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return err
			}
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}
