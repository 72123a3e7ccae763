package records

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gradelookup/backend/internal/shared"
)

var (
	// ErrNotFound means no row matched the identifier.
	ErrNotFound = errors.New("student record not found")
	// ErrAccessDenied means the database rejected the query.
	ErrAccessDenied = errors.New("access denied by record store")
	// ErrInvalidID means the identifier was empty.
	ErrInvalidID = errors.New("student id is required")
)

// Mongo server error codes for Unauthorized and AuthenticationFailed.
const (
	mongoCodeUnauthorized         = 13
	mongoCodeAuthenticationFailed = 18
)

// Store finds a single student row.
type Store interface {
	FindStudent(ctx context.Context, studentID string) (map[string]any, error)
	Count(ctx context.Context) (int64, error)
}

// MongoStore looks students up in one collection. Each lookup column is
// tried in order until one matches.
type MongoStore struct {
	col           *mongo.Collection
	lookupColumns []string
}

// NewMongoStore returns a store over db.collection.
func NewMongoStore(db *mongo.Database, collection string, lookupColumns []string) *MongoStore {
	return &MongoStore{
		col:           db.Collection(collection),
		lookupColumns: lookupColumns,
	}
}

// FindStudent returns the first document whose lookup column equals
// studentID.
func (s *MongoStore) FindStudent(ctx context.Context, studentID string) (map[string]any, error) {
	if studentID == "" {
		return nil, ErrInvalidID
	}

	for _, column := range s.lookupColumns {
		var doc bson.M
		err := s.col.FindOne(ctx, lookupFilter(column, studentID)).Decode(&doc)
		if err == nil {
			return shared.DocumentToMap(doc), nil
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		return nil, classifyMongoError(err)
	}

	return nil, ErrNotFound
}

var decimalID = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// lookupFilter matches column against studentID. Imported sheets often store
// ids as numbers, so a decimal id also matches the numeric value.
func lookupFilter(column, studentID string) bson.M {
	if decimalID.MatchString(studentID) {
		if n, err := strconv.ParseFloat(studentID, 64); err == nil {
			return bson.M{column: bson.M{"$in": bson.A{studentID, n}}}
		}
	}
	return bson.M{column: studentID}
}

// Count returns the number of documents in the collection.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, classifyMongoError(err)
	}
	return n, nil
}

func classifyMongoError(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(mongoCodeUnauthorized) || se.HasErrorCode(mongoCodeAuthenticationFailed)) {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return fmt.Errorf("record store query failed: %w", err)
}
