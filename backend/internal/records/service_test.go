package records

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const bufSize = 1024 * 1024

// memStore is an in-memory Store keyed by student id.
type memStore struct {
	rows map[string]map[string]any
	err  error
}

func (m *memStore) FindStudent(_ context.Context, id string) (map[string]any, error) {
	if m.err != nil {
		return nil, m.err
	}
	if id == "" {
		return nil, ErrInvalidID
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return row, nil
}

func (m *memStore) Count(context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.rows)), nil
}

func startServer(t *testing.T, store Store) *Client {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(zap.NewNop())))
	RegisterRecordServiceServer(s, NewRecordService(store, zap.NewNop()))

	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn, 5*time.Second)
}

func TestRecordService_Lookup(t *testing.T) {
	store := &memStore{rows: map[string]map[string]any{
		"42": {
			"Student ID":               "42",
			"Assign 1 Grade(3 marks)":  2.5,
			"Quiz (Scaled - 15 marks)": int64(12),
			"Remarks":                  nil,
		},
	}}
	client := startServer(t, store)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rec, err := client.Lookup(ctx, " 42 ")
		require.NoError(t, err)

		assert.Equal(t, "42", rec["Student ID"])
		assert.Equal(t, 2.5, rec["Assign 1 Grade(3 marks)"])
		assert.Equal(t, 12.0, rec["Quiz (Scaled - 15 marks)"])
		assert.True(t, rec.Has("Remarks"))
		assert.Nil(t, rec["Remarks"])
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := client.Lookup(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Empty ID", func(t *testing.T) {
		_, err := client.Lookup(ctx, "   ")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("Count", func(t *testing.T) {
		n, err := client.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestRecordService_ErrorMapping(t *testing.T) {
	t.Run("Access Denied", func(t *testing.T) {
		client := startServer(t, &memStore{err: ErrAccessDenied})
		_, err := client.Lookup(context.Background(), "42")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Generic", func(t *testing.T) {
		client := startServer(t, &memStore{err: errors.New("connection reset")})
		_, err := client.Lookup(context.Background(), "42")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrAccessDenied)
		var se *ServiceError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, codes.Internal, se.Code)
		assert.Equal(t, "failed to retrieve student record", se.Error())
	})
}

func TestRecordService_DirectStatusCodes(t *testing.T) {
	svc := NewRecordService(&memStore{rows: map[string]map[string]any{}}, zap.NewNop())

	_, err := svc.GetStudentRecord(context.Background(), wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.GetStudentRecord(context.Background(), wrapperspb.String("x"))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestClassifyMongoError(t *testing.T) {
	denied := classifyMongoError(mongo.CommandError{Code: mongoCodeUnauthorized, Name: "Unauthorized", Message: "not authorized"})
	assert.ErrorIs(t, denied, ErrAccessDenied)

	authFailed := classifyMongoError(mongo.CommandError{Code: mongoCodeAuthenticationFailed, Name: "AuthenticationFailed"})
	assert.ErrorIs(t, authFailed, ErrAccessDenied)

	other := classifyMongoError(mongo.CommandError{Code: 2, Name: "BadValue"})
	assert.NotErrorIs(t, other, ErrAccessDenied)
}

func TestMongoStore_EmptyID(t *testing.T) {
	s := &MongoStore{lookupColumns: []string{"Student ID"}}
	_, err := s.FindStudent(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidID)
}
