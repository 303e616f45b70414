package engine

import (
	"strconv"
	"strings"

	"github.com/shaiso/stencil/internal/domain"
)

// Разделители ключа хранения поля.
// Оба символа зарезервированы: идентификаторы нод и имена входов
// не должны их содержать.
const (
	fieldKeySeparator   = "|"
	fieldOrderSeparator = "!"
)

// FieldKey — разобранный ключ хранения значения поля.
//
// Идентичность для согласования определяется парой (NodeID, InputName):
// закодированный порядок в сравнении не участвует, поэтому значение
// переживает перестановку нод.
type FieldKey struct {
	// Order — порядок ноды; 0 означает, что порядок не закодирован.
	Order int

	// NodeID — идентификатор ноды.
	NodeID string

	// InputName — имя входа.
	InputName string
}

// IsZero возвращает true для нулевого (не разобранного) ключа.
func (k FieldKey) IsZero() bool {
	return k == FieldKey{}
}

// SameIdentity возвращает true, если ключи указывают на одну пару
// (нода, вход) независимо от закодированного порядка.
func (k FieldKey) SameIdentity(other FieldKey) bool {
	return k.NodeID == other.NodeID && k.InputName == other.InputName
}

// EncodeFieldKey кодирует ключ хранения "<order>!<nodeID>|<inputName>".
//
// Порядок приводится к [domain.FieldOrderMin, domain.FieldOrderMax];
// order == 0 кодирует ключ без префикса порядка.
func EncodeFieldKey(nodeID, inputName string, order int) string {
	base := nodeID + fieldKeySeparator + inputName
	if order == 0 {
		return base
	}
	return strconv.Itoa(domain.ClampOrder(order)) + fieldOrderSeparator + base
}

// DecodeFieldKey разбирает ключ хранения.
//
// Невалидный префикс порядка даёт Order == 0; ключ без разделителя
// полей считается неразборным и даёт нулевой FieldKey.
func DecodeFieldKey(key string) FieldKey {
	rest := key
	order := 0

	if head, tail, found := strings.Cut(rest, fieldOrderSeparator); found {
		if v, err := strconv.Atoi(head); err == nil {
			order = v
		}
		rest = tail
	}

	nodeID, inputName, found := strings.Cut(rest, fieldKeySeparator)
	if !found {
		return FieldKey{}
	}

	return FieldKey{Order: order, NodeID: nodeID, InputName: inputName}
}
