package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	apphttp "github.com/vncsmyrnk/pollingapp/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollingapp/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollingapp/internal/core/services"
)

const (
	testJWTSecret       = "test-secret"
	testDefaultPageSize = 30
	testMaxPageSize     = 50
)

type testApp struct {
	Container testcontainers.Container
	DB        *sql.DB
	Server    *httptest.Server
	Client    *http.Client
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := postgres.Open(connStr)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	userRepo := postgres.NewUserRepository(db)

	pollService := services.NewPollService(pollRepo, voteRepo, userRepo, testDefaultPageSize, testMaxPageSize)
	voteService := services.NewVoteService(pollRepo, voteRepo, userRepo)
	userService := services.NewUserService(userRepo, pollRepo, voteRepo)

	pollHandler := apphttp.NewPollHandler(pollService, voteService)
	userHandler := apphttp.NewUserHandler(userService, pollService)
	auth := apphttp.NewAuthMiddleware(testJWTSecret)

	server := httptest.NewServer(apphttp.NewHandler(pollHandler, userHandler, auth))

	return &testApp{
		Container: container,
		DB:        db,
		Server:    server,
		Client:    server.Client(),
	}
}

func (a *testApp) Teardown(t *testing.T) {
	t.Helper()
	a.Server.Close()
	a.DB.Close()
	if err := a.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// createUserAndToken seeds a user row, standing in for the external identity
// service, and mints the access token the middleware expects.
func createUserAndToken(t *testing.T, db *sql.DB) (uuid.UUID, string, string) {
	t.Helper()

	userID := uuid.New()
	username := fmt.Sprintf("user-%s", userID.String()[:8])
	name := fmt.Sprintf("User %s", userID.String()[:8])
	email := fmt.Sprintf("%s@example.com", username)
	_, err := db.Exec("INSERT INTO users (id, username, name, email) VALUES ($1, $2, $3, $4)", userID, username, name, email)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":      userID.String(),
		"username": username,
		"name":     name,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return userID, username, signedToken
}
