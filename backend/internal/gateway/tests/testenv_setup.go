package tests

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"gradelookup/backend/internal/gateway"
	"gradelookup/backend/internal/gateway/web"
	"gradelookup/backend/internal/records"
	"gradelookup/backend/internal/report"
	"gradelookup/backend/internal/session"
	"gradelookup/backend/internal/shared"
)

const bufSize = 1024 * 1024

// fakeStore is an in-memory records.Store.
type fakeStore struct {
	rows map[string]map[string]any
	err  error
}

func (f *fakeStore) FindStudent(_ context.Context, id string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, records.ErrNotFound
	}
	return row, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.rows)), nil
}

// TestEnv holds all the running components for the test
type TestEnv struct {
	Router   http.Handler
	Sessions *session.Store
	Store    *fakeStore
}

func testGatewayConfig() *shared.GatewayConfig {
	return &shared.GatewayConfig{
		ServiceConfig: shared.ServiceConfig{ServiceName: "gateway-test", Environment: "test"},
		Session:       shared.SessionConfig{Secret: "test-secret", Timeout: time.Minute},
		CORS: shared.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		},
	}
}

// setupGatewayTestEnv runs the record service in-memory behind the gateway.
func setupGatewayTestEnv(t *testing.T, store *fakeStore) *TestEnv {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer()
	records.RegisterRecordServiceServer(s, records.NewRecordService(store, zap.NewNop()))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	layout, err := report.DefaultConfig()
	if err != nil {
		t.Fatalf("Failed to load report layout: %v", err)
	}

	cfg := testGatewayConfig()
	sessions := session.NewStore(cfg.Session.Secret, cfg.Session.Timeout, false)

	deps := &gateway.Dependencies{
		Resolver: records.NewClient(conn, 5*time.Second),
		Builder:  report.NewBuilder(layout),
		Sessions: sessions,
		Pages:    web.MustNewPages(),
		Logger:   zap.NewNop(),
	}

	return &TestEnv{
		Router:   gateway.SetupRoutes(deps, cfg),
		Sessions: sessions,
		Store:    store,
	}
}

// setupUnconfiguredGateway has no resolver and no report layout.
func setupUnconfiguredGateway(t *testing.T) http.Handler {
	t.Helper()

	cfg := testGatewayConfig()
	deps := &gateway.Dependencies{
		Sessions: session.NewStore(cfg.Session.Secret, cfg.Session.Timeout, false),
		Pages:    web.MustNewPages(),
		Logger:   zap.NewNop(),
	}
	return gateway.SetupRoutes(deps, cfg)
}

func sampleStudents() map[string]map[string]any {
	return map[string]map[string]any{
		"42": {
			"Student ID":                           "42",
			"Assign 1 Grade(3 marks)":              2.5,
			"Midterm(Scaled - 15 marks)":           "6",
			"TotalAssignments (Scaled - 10 marks)": nil,
			"Total":                                31.5,
			"Rank":                                 "3",
		},
		"ab7": {
			"student_id": "ab7",
			"Remarks":    "no graded columns",
		},
	}
}
