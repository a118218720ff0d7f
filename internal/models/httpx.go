package models

import (
	"encoding/json"
	"net/http"
	"time"
)

// Problem представляет ответ об ошибке в стиле RFC 7807.
// Timestamp присутствует в каждом теле ответа по контракту API.
type Problem struct {
	Type      string      `json:"type,omitempty"` // URL с описанием типа проблемы (можно оставить пустым)
	Title     string      `json:"title"`          // краткое название
	Status    int         `json:"status"`         // HTTP код
	Detail    string      `json:"detail,omitempty"`
	Timestamp string      `json:"timestamp"`
	Instance  string      `json:"instance,omitempty"`
	Extra     interface{} `json:"extra,omitempty"` // произвольные поля (map/struct)
}

// Stamp — ISO-8601 метка времени для тел ответов.
func Stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func WriteProblem(w http.ResponseWriter, status int, title, detail string, extra any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:     title,
		Status:    status,
		Detail:    detail,
		Timestamp: Stamp(),
		Extra:     extra,
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
