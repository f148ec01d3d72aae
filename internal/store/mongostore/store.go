// Package mongostore persists records in MongoDB, one collection per record
// type.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

var _ store.Repository = (*Store)(nil)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects, pings and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	slog.InfoContext(ctx, "Connected to MongoDB", "database", dbName)
	return s, nil
}

// EnsureIndexes creates the (user, period) unique index on reports and the
// per-user date indexes on the ledgers.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, idx := range indexes() {
		if _, err := s.db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

type collectionIndex struct {
	collection string
	model      mongo.IndexModel
}

func indexes() []collectionIndex {
	byUserDate := bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}
	return []collectionIndex{
		{collIncomes, mongo.IndexModel{Keys: byUserDate}},
		{collExpenses, mongo.IndexModel{Keys: byUserDate}},
		{collBudgets, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{collGoals, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{collReports, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_period_unique"),
		}},
		{collInsights, mongo.IndexModel{Keys: byUserDate}},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return core.StoreError("ping mongo", err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func byID(id string) bson.M { return bson.M{"_id": id} }

// findOne decodes a single document, mapping ErrNoDocuments to ErrNotFound.
func findOne(ctx context.Context, c *mongo.Collection, id, what string, out any) error {
	err := c.FindOne(ctx, byID(id)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.NotFoundf("%s %s", what, id)
	}
	if err != nil {
		return core.StoreError("get "+what, err)
	}
	return nil
}

func replaceOne(ctx context.Context, c *mongo.Collection, id, what string, doc any) error {
	res, err := c.ReplaceOne(ctx, byID(id), doc)
	if err != nil {
		return core.StoreError("update "+what, err)
	}
	if res.MatchedCount == 0 {
		return core.NotFoundf("%s %s", what, id)
	}
	return nil
}

func deleteOne(ctx context.Context, c *mongo.Collection, id, what string) error {
	res, err := c.DeleteOne(ctx, byID(id))
	if err != nil {
		return core.StoreError("delete "+what, err)
	}
	if res.DeletedCount == 0 {
		return core.NotFoundf("%s %s", what, id)
	}
	return nil
}

func insertOne(ctx context.Context, c *mongo.Collection, what string, doc any) error {
	if _, err := c.InsertOne(ctx, doc); err != nil {
		return core.StoreError("create "+what, err)
	}
	return nil
}

// findAll runs a query and decodes every document into T.
func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sortBy bson.D, what string) ([]T, error) {
	cursor, err := c.Find(ctx, filter, options.Find().SetSort(sortBy))
	if err != nil {
		return nil, core.StoreError("list "+what, err)
	}
	defer cursor.Close(ctx)
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, core.StoreError("decode "+what, err)
	}
	return out, nil
}

func (s *Store) ledger(kind core.Kind) (*mongo.Collection, error) {
	name, err := ledgerCollection(kind)
	if err != nil {
		return nil, err
	}
	return s.db.Collection(name), nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	c, err := s.ledger(t.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := insertOne(ctx, c, string(t.Kind), newTransactionDoc(t)); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *Store) GetTransaction(ctx context.Context, kind core.Kind, id string) (core.Transaction, error) {
	c, err := s.ledger(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	var d transactionDoc
	if err := findOne(ctx, c, id, string(kind), &d); err != nil {
		return core.Transaction{}, err
	}
	return d.toCore(kind), nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	c, err := s.ledger(t.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := replaceOne(ctx, c, t.ID, string(t.Kind), newTransactionDoc(t)); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, kind core.Kind, id string) error {
	c, err := s.ledger(kind)
	if err != nil {
		return err
	}
	return deleteOne(ctx, c, id, string(kind))
}

func (s *Store) ListTransactions(ctx context.Context, kind core.Kind, f core.LedgerFilter) ([]core.Transaction, error) {
	c, err := s.ledger(kind)
	if err != nil {
		return nil, err
	}
	docs, err := findAll[transactionDoc](ctx, c, ledgerFilter(f), bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}, string(kind))
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, len(docs))
	for i, d := range docs {
		out[i] = d.toCore(kind)
	}
	return out, nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, name := range []string{collIncomes, collExpenses} {
		ids, err := s.db.Collection(name).Distinct(ctx, "userId", bson.M{})
		if err != nil {
			return nil, core.StoreError("list users", err)
		}
		for _, v := range ids {
			if id, ok := v.(string); ok {
				seen[id] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := insertOne(ctx, s.db.Collection(collBudgets), "budget", newBudgetDoc(b)); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *Store) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	var d budgetDoc
	if err := findOne(ctx, s.db.Collection(collBudgets), id, "budget", &d); err != nil {
		return core.Budget{}, err
	}
	return d.toCore(), nil
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := replaceOne(ctx, s.db.Collection(collBudgets), b.ID, "budget", newBudgetDoc(b)); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	return deleteOne(ctx, s.db.Collection(collBudgets), id, "budget")
}

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	docs, err := findAll[budgetDoc](ctx, s.db.Collection(collBudgets), bson.M{"userId": userID}, newestFirst, "budgets")
	if err != nil {
		return nil, err
	}
	out := make([]core.Budget, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}

func (s *Store) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := insertOne(ctx, s.db.Collection(collGoals), "savings goal", newGoalDoc(g)); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

func (s *Store) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	var d goalDoc
	if err := findOne(ctx, s.db.Collection(collGoals), id, "savings goal", &d); err != nil {
		return core.SavingsGoal{}, err
	}
	return d.toCore(), nil
}

func (s *Store) UpdateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := replaceOne(ctx, s.db.Collection(collGoals), g.ID, "savings goal", newGoalDoc(g)); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return deleteOne(ctx, s.db.Collection(collGoals), id, "savings goal")
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	docs, err := findAll[goalDoc](ctx, s.db.Collection(collGoals), bson.M{"userId": userID}, newestFirst, "savings goals")
	if err != nil {
		return nil, err
	}
	out := make([]core.SavingsGoal, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}

func reportQuery(userID string, p core.Period) bson.M {
	return bson.M{"userId": userID, "month": p.Month, "year": p.Year}
}

func (s *Store) FindReport(ctx context.Context, userID string, p core.Period) (core.FinancialReport, bool, error) {
	var d reportDoc
	err := s.db.Collection(collReports).FindOne(ctx, reportQuery(userID, p)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.FinancialReport{}, false, nil
	}
	if err != nil {
		return core.FinancialReport{}, false, core.StoreError("find report", err)
	}
	r, err := d.toCore()
	if err != nil {
		return core.FinancialReport{}, false, core.StoreError("find report", err)
	}
	return r, true, nil
}

func (s *Store) CreateReport(ctx context.Context, r core.FinancialReport) (core.FinancialReport, error) {
	_, err := s.db.Collection(collReports).InsertOne(ctx, newReportDoc(r))
	if mongo.IsDuplicateKeyError(err) {
		return core.FinancialReport{}, core.StoreError("create report", fmt.Errorf("report for %s already exists: %w", r.Period(), err))
	}
	if err != nil {
		return core.FinancialReport{}, core.StoreError("create report", err)
	}
	return r, nil
}

func (s *Store) UpdateReport(ctx context.Context, r core.FinancialReport) (core.FinancialReport, error) {
	if err := replaceOne(ctx, s.db.Collection(collReports), r.ID, "report", newReportDoc(r)); err != nil {
		return core.FinancialReport{}, err
	}
	return r, nil
}

func (s *Store) ListReports(ctx context.Context, userID string) ([]core.FinancialReport, error) {
	docs, err := findAll[reportDoc](ctx, s.db.Collection(collReports), bson.M{"userId": userID},
		bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}, "reports")
	if err != nil {
		return nil, err
	}
	out := make([]core.FinancialReport, 0, len(docs))
	for _, d := range docs {
		r, err := d.toCore()
		if err != nil {
			return nil, core.StoreError("list reports", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) CreateInsight(ctx context.Context, i core.Insight) (core.Insight, error) {
	if err := insertOne(ctx, s.db.Collection(collInsights), "insight", newInsightDoc(i)); err != nil {
		return core.Insight{}, err
	}
	return i, nil
}

func (s *Store) GetInsight(ctx context.Context, id string) (core.Insight, error) {
	var d insightDoc
	if err := findOne(ctx, s.db.Collection(collInsights), id, "insight", &d); err != nil {
		return core.Insight{}, err
	}
	return d.toCore(), nil
}

func (s *Store) UpdateInsight(ctx context.Context, i core.Insight) (core.Insight, error) {
	if err := replaceOne(ctx, s.db.Collection(collInsights), i.ID, "insight", newInsightDoc(i)); err != nil {
		return core.Insight{}, err
	}
	return i, nil
}

func (s *Store) DeleteInsight(ctx context.Context, id string) error {
	return deleteOne(ctx, s.db.Collection(collInsights), id, "insight")
}

func (s *Store) ListInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	docs, err := findAll[insightDoc](ctx, s.db.Collection(collInsights), bson.M{"userId": userID},
		bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}, "insights")
	if err != nil {
		return nil, err
	}
	out := make([]core.Insight, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}
