package catalogservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Service модель услуги из каталога
type Service struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Published FlexBool `json:"published"`
}

// IsPublished сообщает, доступна ли услуга для записи
func (s *Service) IsPublished() bool {
	return bool(s.Published)
}

// FlexBool булево поле, которое каталог исторически отдает в разных
// представлениях: true/false, "true"/"false", 1/0. Нормализуем при парсинге.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	// Строковое представление: "true", "false", "1", "0"
	if len(data) >= 2 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flexbool: %v", err)
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("flexbool: unsupported string value %q", s)
		}
		*b = FlexBool(parsed)
		return nil
	}

	// Числовое представление: 1/0
	if num, err := strconv.ParseFloat(string(data), 64); err == nil {
		*b = FlexBool(num != 0)
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("flexbool: unsupported value %s", string(data))
	}
	*b = FlexBool(v)
	return nil
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
