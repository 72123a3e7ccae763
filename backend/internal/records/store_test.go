package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Falls Back To Second Column", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		store := &MongoStore{col: mt.Coll, lookupColumns: []string{"Student ID", "student_id"}}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "abc"},
				{Key: "student_id", Value: "2024003"},
				{Key: "Quiz (Scaled - 15 marks)", Value: int32(14)},
			}),
		)

		row, err := store.FindStudent(context.Background(), "2024003")
		require.NoError(mt, err)
		assert.Equal(mt, "2024003", row["student_id"])
		assert.Equal(mt, int64(14), row["Quiz (Scaled - 15 marks)"])
		assert.NotContains(mt, row, "_id")
	})

	mt.Run("Numeric Stored ID", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		store := &MongoStore{col: mt.Coll, lookupColumns: []string{"Student ID"}}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "Student ID", Value: 2024001.0},
		}))

		row, err := store.FindStudent(context.Background(), "2024001")
		require.NoError(mt, err)
		assert.Equal(mt, 2024001.0, row["Student ID"])

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		values, err := evt.Command.Lookup("filter", "Student ID", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 2)
		assert.Equal(mt, "2024001", values[0].StringValue())
		assert.Equal(mt, 2024001.0, values[1].Double())
	})

	mt.Run("Not Found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		store := &MongoStore{col: mt.Coll, lookupColumns: []string{"Student ID", "student_id"}}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := store.FindStudent(context.Background(), "nobody")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("Access Denied", func(mt *mtest.T) {
		store := &MongoStore{col: mt.Coll, lookupColumns: []string{"Student ID"}}

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    mongoCodeUnauthorized,
			Name:    "Unauthorized",
			Message: "not authorized on gradebook",
		}))

		_, err := store.FindStudent(context.Background(), "2024001")
		assert.ErrorIs(mt, err, ErrAccessDenied)
	})
}

func TestLookupFilter(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bson.M
	}{
		{"text id", "ab7", bson.M{"Student ID": "ab7"}},
		{"integer id", "2024001", bson.M{"Student ID": bson.M{"$in": bson.A{"2024001", 2024001.0}}}},
		{"decimal id", "12.5", bson.M{"Student ID": bson.M{"$in": bson.A{"12.5", 12.5}}}},
		{"not a plain number", "1e3", bson.M{"Student ID": "1e3"}},
		{"mixed", "42abc", bson.M{"Student ID": "42abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lookupFilter("Student ID", tt.id))
		})
	}
}
