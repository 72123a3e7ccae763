package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"gradelookup/backend/internal/report"
)

// Client resolves student records through the record service.
type Client struct {
	rpc     *recordServiceClient
	conn    *grpc.ClientConn
	timeout time.Duration
}

// Dial connects to the record service at addr. Calls made through the
// returned client are bounded by timeout.
func Dial(addr string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create record service client for %s: %w", addr, err)
	}
	c := NewClient(conn, timeout)
	c.conn = conn
	return c, nil
}

// NewClient wraps an existing connection. The caller keeps ownership of cc.
func NewClient(cc grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{
		rpc:     &recordServiceClient{cc: cc},
		timeout: timeout,
	}
}

// Lookup fetches the row for studentID. It returns ErrNotFound,
// ErrAccessDenied or ErrInvalidID for those outcomes and a *ServiceError or a
// transport error for anything else.
func (c *Client) Lookup(ctx context.Context, studentID string) (report.RawRecord, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, ErrInvalidID
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.rpc.GetStudentRecord(ctx, wrapperspb.String(studentID))
	if err != nil {
		return nil, fromStatus(err)
	}

	return report.RawRecord(out.AsMap()), nil
}

// Count returns the number of records the service can see.
func (c *Client) Count(ctx context.Context) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.rpc.CountRecords(ctx, &emptypb.Empty{})
	if err != nil {
		return 0, fromStatus(err)
	}
	return out.GetValue(), nil
}

// Close releases the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("record service call failed: %w", err)
	}

	switch st.Code() {
	case codes.NotFound:
		return ErrNotFound
	case codes.PermissionDenied, codes.Unauthenticated:
		return ErrAccessDenied
	case codes.InvalidArgument:
		return ErrInvalidID
	default:
		return &ServiceError{Code: st.Code(), Message: st.Message()}
	}
}

// ServiceError is a lookup failure other than not-found, access-denied or
// an invalid id.
type ServiceError struct {
	Code    codes.Code
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
