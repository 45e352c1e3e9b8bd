package middleware

import (
	"fmt"
	"html"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorHandlingMiddleware recovers from panics and answers with a generic
// error, as an HTML fragment for HTMX requests
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("request_id", GetRequestID(r.Context())),
						zap.ByteString("stack", debug.Stack()))

					writeProblem(w, r, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "Página não encontrada.")
	})
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "Método não permitido.")
	})
}

// writeProblem renders a short error message as an alert fragment for HTMX
// or as a minimal page otherwise
func writeProblem(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if IsHTMXRequest(r) {
		fmt.Fprintf(w, `<div class="alert alert-danger" role="alert">%s</div>`, html.EscapeString(message))
		return
	}

	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="UTF-8"><title>%d</title><link href="/static/css/app.css" rel="stylesheet"></head>
<body>
<main class="container">
<h1>%d</h1>
<p>%s</p>
<a href="/">Voltar para a loja</a>
</main>
</body>
</html>`, status, status, html.EscapeString(message))
}
