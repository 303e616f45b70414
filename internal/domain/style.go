package domain

import "strings"

// Style — именованная пара префикс/суффикс, которой сервер
// оборачивает пользовательский prompt при генерации.
//
// Стили применяются только на стороне сервера: исходный prompt
// пользователя не меняется.
type Style struct {
	// Name — уникальное имя стиля.
	Name string `json:"name"`

	// Pre — текст перед prompt.
	Pre string `json:"pre"`

	// Post — текст после prompt (через запятую).
	Post string `json:"post"`

	// IsDefault — стиль, применяемый когда запрос не указал стиль.
	IsDefault bool `json:"is_default"`
}

// StyleNone — имя пустого стиля (prompt остаётся как есть).
const StyleNone = "none"

// Apply оборачивает prompt в префикс и суффикс стиля.
// Итог: "[pre] [prompt], [post]"; пустые части пропускаются.
func (st Style) Apply(prompt string) string {
	out := strings.TrimSpace(prompt)

	if pre := strings.TrimSpace(st.Pre); pre != "" {
		out = pre + " " + out
	}
	if post := strings.TrimSpace(st.Post); post != "" {
		out = out + ", " + post
	}
	return out
}
