// Package respond provides helpers for writing JSON responses, with
// error sanitization so internal failures never leak connection
// strings or stack details to API clients.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes a JSON response with the given status code and body.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// ヘッダー送信済みのためエラーレスポンスは返せない
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the raw error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeSubstrings marks error messages that are fine to show clients,
// mostly validation wording.
var safeSubstrings = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"must not",
	"unauthorized",
	"forbidden",
	"too long",
}

// SafeError returns validation-style errors verbatim and masks
// everything else as "internal server error", logging the original.
// Status codes of 500 and above are always masked.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	isSafe := false
	if code < 500 {
		lowerMsg := strings.ToLower(msg)
		for _, safe := range safeSubstrings {
			if strings.Contains(lowerMsg, safe) {
				isSafe = true
				break
			}
		}
	}

	if isSafe {
		JSON(w, code, map[string]string{"error": msg})
		return
	}
	slog.Default().Error("request failed",
		slog.Int("code", code),
		slog.String("status", http.StatusText(code)),
		slog.Any("error", err))
	JSON(w, code, map[string]string{"error": "internal server error"})
}
