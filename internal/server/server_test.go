package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mansoorceksport/liftlog/internal/config"
	"github.com/mansoorceksport/liftlog/internal/metrics"
	"github.com/mansoorceksport/liftlog/internal/server"
)

// setupTestDB spins up a fresh MongoDB container, skipped with -short
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}
	endpoint, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	t.Cleanup(func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	})
	return client.Database("liftlog_e2e")
}

func testConfig() *config.Config {
	cfg := &config.Config{Training: config.DefaultTraining()}
	cfg.Detection.LockTTLSeconds = 5
	cfg.Detection.MaxRetries = 3
	return cfg
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func (c client) do(method, path, userID string, body any, headers ...string) (*http.Response, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestApp_WithoutRedis(t *testing.T) {
	app := server.NewApp(server.AppDependencies{
		Config:  testConfig(),
		MongoDB: setupTestDB(t),
	})
	c := client{t: t, app: app}

	resp, body := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	resp, body = c.do(http.MethodGet, "/v1/exercise-types", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "lbs", body["weight_unit"])
	assert.Len(t, body["types"], 6)

	resp, body = c.do(http.MethodGet, "/v1/me/exercises", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing user identity", body["error"])
}

func TestGoldenPath(t *testing.T) {
	db := setupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	reg := prometheus.NewRegistry()
	app := server.NewApp(server.AppDependencies{
		Config:      testConfig(),
		MongoDB:     db,
		RedisClient: redisClient,
		Metrics:     metrics.NewManager("liftlog", "e2e", reg),
		Gatherer:    reg,
	})
	c := client{t: t, app: app}
	const user = "lifter-1"

	// create an exercise
	resp, ex := c.do(http.MethodPost, "/v1/me/exercises/", user, map[string]any{
		"title":         "Barbell Bench Press",
		"exercise_type": "regular",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	exerciseID := ex["id"].(string)
	require.NotEmpty(t, exerciseID)

	// first performance is an achievement
	resp, first := c.do(http.MethodPost, "/v1/me/performances/", user, map[string]any{
		"exercise_id": exerciseID,
		"date":        "2026-03-01",
		"time":        "18:00",
		"sets":        []map[string]any{{"weight": 135, "reps": 5}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rows := first["rows"].([]any)
	assert.Equal(t, "achievement", rows[0].(map[string]any)["kind"])

	// heavier second performance beats the first
	second := map[string]any{
		"exercise_id": exerciseID,
		"logged_at":   "2026-03-08T18:00:00Z",
		"sets":        []map[string]any{{"weight": 145, "reps": 5}},
	}
	resp, created := c.do(http.MethodPost, "/v1/me/performances/", user, second, "X-Correlation-ID", "corr-2")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	top := created["rows"].([]any)[0].(map[string]any)
	assert.Equal(t, "beaten", top["kind"])
	assert.Equal(t, "Previous: 157.5 lbs", top["comparison"])
	logID := created["log"].(map[string]any)["id"].(string)

	// a retried submission replays the stored response
	resp, replayed := c.do(http.MethodPost, "/v1/me/performances/", user, second, "X-Correlation-ID", "corr-2")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Idempotent-Replay"))
	assert.Equal(t, logID, replayed["log"].(map[string]any)["id"])

	// invalid data is rejected with the failing field
	resp, body := c.do(http.MethodPost, "/v1/me/performances/", user, map[string]any{
		"exercise_id": exerciseID,
		"date":        "2026-03-09",
		"sets":        []map[string]any{{"weight": 100}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "sets.0.reps", body["field"])
	assert.Equal(t, "regular", body["exercise_type"])

	resp, body = c.do(http.MethodGet, "/v1/me/performances/"+logID+"/comparison", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["rows"], 6)

	resp, body = c.do(http.MethodGet, "/v1/me/exercises/"+exerciseID+"/records/history?pr_type=one_rm", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["records"], 2)

	resp, _ = c.do(http.MethodGet, "/v1/me/exercises/"+exerciseID+"/records/history?pr_type=rep_specific", user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/v1/me/exercises/"+exerciseID+"/records/history?pr_type=best_vibes", user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// the type is locked once a performance exists
	resp, _ = c.do(http.MethodPut, "/v1/me/exercises/"+exerciseID, user, map[string]any{
		"title":         "Barbell Bench Press",
		"exercise_type": "bodyweight",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// other users cannot see the performance
	resp, _ = c.do(http.MethodGet, "/v1/me/performances/"+logID, "lifter-2", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(http.MethodDelete, "/v1/me/performances/"+logID, user, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/v1/me/performances/"+logID, user, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.do(http.MethodPut, "/v1/me/preferences", user, map[string]any{"show_extra_weight": true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = c.do(http.MethodGet, "/v1/me/preferences", user, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["show_extra_weight"])

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "liftlog_e2e_personal_records_created")
}
