package middleware

import (
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"main/internal/config"
)

// Cors returns the CORS handler for the chi-based backend services.
func Cors(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
}

// RequestLogger is the net/http counterpart of RequestLoggerFiber,
// used by the backend services.
func RequestLogger(log *zap.Logger, service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				elapsed := float64(time.Since(start).Microseconds()) / 1000.0
				log.Info("Request completed",
					zap.String("service", service),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
					zap.Int("status", ww.Status()),
					zap.Float64("elapsed_ms", elapsed),
				)
			}()

			next.ServeHTTP(&timedWriter{ww, start}, r)
		})
	}
}

// timedWriter sets X-Process-Time just before the headers are written.
type timedWriter struct {
	chimw.WrapResponseWriter
	start time.Time
}

func (tw *timedWriter) WriteHeader(status int) {
	elapsed := float64(time.Since(tw.start).Microseconds()) / 1000.0
	tw.Header().Set(HeaderProcessTime, fmt.Sprintf("%.2fms", elapsed))
	tw.WrapResponseWriter.WriteHeader(status)
}
