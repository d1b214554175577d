package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// problemDetail is an RFC7807-style error body.
type problemDetail struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func problem(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, status, problemDetail{Title: title, Status: status, Detail: detail})
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// validationDetail flattens validator errors into one readable line,
// using the JSON field names the client sent.
func validationDetail(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("campo %q é obrigatório", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("campo %q deve ser um de: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("campo %q é inválido", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}
