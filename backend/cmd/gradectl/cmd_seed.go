package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gradelookup/backend/internal/shared"
)

//go:embed students.json
var sampleStudents []byte

var (
	seedFile string
	seedKeep bool
)

// seedCmd loads student records into MongoDB
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load student records into MongoDB",
	Long: `Load student records into the configured MongoDB collection.

Records are read from --file, or from the bundled sample set when no file is
given. The collection is dropped first unless --keep is set.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON array of student records")
	seedCmd.Flags().BoolVar(&seedKeep, "keep", false, "Keep existing records")
}

func runSeed(cmd *cobra.Command, args []string) error {
	data := sampleStudents
	if seedFile != "" {
		var err error
		if data, err = os.ReadFile(seedFile); err != nil {
			return fmt.Errorf("failed to read %s: %w", seedFile, err)
		}
	}

	docs, err := parseSeedRecords(data)
	if err != nil {
		return err
	}

	mongoCfg, err := shared.LoadMongoConfig()
	if err != nil {
		return err
	}
	collection := shared.GetEnv("MONGO_COLLECTION", shared.DefaultCollectionName)
	lookupColumns := shared.GetStringSliceEnv("RECORDS_LOOKUP_COLUMNS", []string{"Student ID", "student_id"})

	client, db, err := shared.ConnectMongoDB(mongoCfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shared.DisconnectMongoDB(client); err != nil {
			logger.Warn("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	n, err := seedStudents(ctx, db.Collection(collection), docs, lookupColumns, !seedKeep)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d student records into %s.%s\n", n, mongoCfg.Database, collection)
	return nil
}

// parseSeedRecords decodes a JSON array of flat student records.
func parseSeedRecords(data []byte) ([]interface{}, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("seed data must be a JSON array of objects: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("seed data is empty")
	}

	docs := make([]interface{}, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("seed record %d is null", i)
		}
		docs = append(docs, bson.M(row))
	}
	return docs, nil
}

func seedStudents(ctx context.Context, col *mongo.Collection, docs []interface{}, lookupColumns []string, drop bool) (int, error) {
	if drop {
		if err := col.Drop(ctx); err != nil {
			return 0, fmt.Errorf("failed to drop collection: %w", err)
		}
		logger.Info("Collection cleared", zap.String("collection", col.Name()))
	}

	// One sparse index per lookup column; records carry only one of them.
	models := make([]mongo.IndexModel, 0, len(lookupColumns))
	for _, column := range lookupColumns {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: column, Value: 1}},
			Options: options.Index().SetSparse(true),
		})
	}
	if len(models) > 0 {
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			return 0, fmt.Errorf("failed to create lookup indexes: %w", err)
		}
	}

	res, err := col.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert student records: %w", err)
	}
	logger.Info("Seeded student records", zap.Int("count", len(res.InsertedIDs)))
	return len(res.InsertedIDs), nil
}
