package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pustakago/background-worker-service/internal/app/background-worker/service"
	"pustakago/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// dirtyBacklogWarnThreshold - размер очереди сверки, начиная с которого
// healthcheck помечает очередь предупреждением
const dirtyBacklogWarnThreshold = 1000

type HealthCheckHandler struct {
	mongoClient  *mongo.Client
	redisClient  *redis.Client
	reconcileSvc service.ReconcileServiceInterface
}

func NewHealthCheckHandler(
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	reconcileSvc service.ReconcileServiceInterface,
) *HealthCheckHandler {
	return &HealthCheckHandler{
		mongoClient:  mongoClient,
		redisClient:  redisClient,
		reconcileSvc: reconcileSvc,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkMongo(ctx); err != nil {
		checks["mongodb"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["mongodb"] = "healthy"
	}

	if err := h.checkRedis(ctx); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["redis"] = "healthy"
	}

	if err := h.checkBacklog(ctx); err != nil {
		checks["reconcile_backlog"] = "warning: " + err.Error()
	} else {
		checks["reconcile_backlog"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkMongo(ctx); err != nil {
		http.Error(w, "mongodb not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.checkRedis(ctx); err != nil {
		http.Error(w, "redis not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

func (h *HealthCheckHandler) checkMongo(ctx context.Context) error {
	return h.mongoClient.Ping(ctx, nil)
}

func (h *HealthCheckHandler) checkRedis(ctx context.Context) error {
	return h.redisClient.Ping(ctx).Err()
}

// checkBacklog предупреждает о разрастании очереди сверки:
// воркер жив, но не успевает за потоком событий
func (h *HealthCheckHandler) checkBacklog(ctx context.Context) error {
	backlog, err := h.reconcileSvc.Backlog(ctx)
	if err != nil {
		return err
	}

	if backlog > dirtyBacklogWarnThreshold {
		logger.Warn().
			Int64("backlog", backlog).
			Msg("Reconciliation backlog is growing")
	}

	return nil
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
}
