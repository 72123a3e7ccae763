package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const queryTimeout = 10 * time.Second

// RecordService implements the gRPC record service
type RecordService struct {
	store  Store
	logger *zap.Logger
}

// NewRecordService creates a new RecordService instance
func NewRecordService(store Store, logger *zap.Logger) *RecordService {
	return &RecordService{store: store, logger: logger}
}

// GetStudentRecord returns the raw row for one student
func (s *RecordService) GetStudentRecord(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	studentID := strings.TrimSpace(req.GetValue())
	if studentID == "" {
		return nil, status.Error(codes.InvalidArgument, "student id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row, err := s.store.FindStudent(queryCtx, studentID)
	if err != nil {
		return nil, s.toStatus(err, studentID)
	}

	out, err := structpb.NewStruct(row)
	if err != nil {
		s.logger.Error("record cannot be encoded", zap.String("student_id", studentID), zap.Error(err))
		return nil, status.Error(codes.Internal, "record contains unsupported values")
	}

	return out, nil
}

// CountRecords reports how many rows the store holds. The gateway uses it as
// a connectivity check.
func (s *RecordService) CountRecords(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := s.store.Count(queryCtx)
	if err != nil {
		return nil, s.toStatus(err, "")
	}
	return wrapperspb.Int64(n), nil
}

func (s *RecordService) toStatus(err error, studentID string) error {
	switch {
	case errors.Is(err, ErrInvalidID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNotFound):
		return status.Errorf(codes.NotFound, "student %s not found", studentID)
	case errors.Is(err, ErrAccessDenied):
		s.logger.Warn("record store denied access", zap.Error(err))
		return status.Error(codes.PermissionDenied, "permission denied by record store")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "record store timed out")
	default:
		s.logger.Error("record lookup failed", zap.String("student_id", studentID), zap.Error(err))
		return status.Error(codes.Internal, "failed to retrieve student record")
	}
}

// LoggingInterceptor logs every unary call with its status code and latency.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}
