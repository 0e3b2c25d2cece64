package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Mongo defaults.
const (
	DefaultDatabase   = "familytree"
	DefaultCollection = "trees"
	mongoTimeout      = 10 * time.Second
)

// MongoStore keeps one document per tree. The document _id is the tree ID
// and members are indexed by user so listing is a single query.
type MongoStore struct {
	client *mongo.Client
	trees  *mongo.Collection
	now    func() time.Time
}

// mongoDoc is the stored document shape.
type mongoDoc struct {
	ID     string `bson:"_id"`
	Record `bson:",inline"`
}

// NewMongoStore connects to uri and prepares the trees collection of
// database. An empty database uses DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	cctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &MongoStore{
		client: client,
		trees:  client.Database(database).Collection(DefaultCollection),
		now:    time.Now,
	}
	_, err = s.trees.Indexes().CreateOne(cctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members.user_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create member index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) load(ctx context.Context, id string) (*Record, error) {
	var doc mongoDoc
	err := s.trees.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, treeNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", id, err)
	}
	return &doc.Record, nil
}

func (s *MongoStore) CreateTree(ctx context.Context, owner string, t *family.Tree) (*Record, error) {
	rec, err := newRecord(owner, t, s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}
	_, err = s.trees.InsertOne(ctx, mongoDoc{ID: rec.Tree.ID, Record: *rec})
	if mongo.IsDuplicateKeyError(err) {
		return nil, idTaken(rec.Tree.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert tree: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) GetTree(ctx context.Context, user, id string) (*Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(rec, user, canView, "view"); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *MongoStore) PutTree(ctx context.Context, user string, t *family.Tree) (*Record, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	var out *Record
	err := s.update(ctx, t.ID, func(r *Record) error {
		out = r
		return replaceTree(r, user, t, s.now().UTC().Truncate(time.Millisecond))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) DeleteTree(ctx context.Context, user, id string) error {
	rec, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(rec, user, canManage, "delete"); err != nil {
		return err
	}
	if _, err := s.trees.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete tree %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) ListTrees(ctx context.Context, user string) ([]Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.trees.Find(ctx, bson.M{"members.user_id": user}, opts)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tree: %w", err)
		}
		out = append(out, doc.summary(user))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Share(ctx context.Context, user, id string, m family.Member) error {
	return s.update(ctx, id, func(r *Record) error {
		return share(r, user, m, s.now().UTC().Truncate(time.Millisecond))
	})
}

func (s *MongoStore) Unshare(ctx context.Context, user, id, member string) error {
	return s.update(ctx, id, func(r *Record) error {
		return unshare(r, user, member, s.now().UTC().Truncate(time.Millisecond))
	})
}

func (s *MongoStore) Members(ctx context.Context, user, id string) ([]family.Member, error) {
	rec, err := s.GetTree(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return rec.Members, nil
}

// update applies fn and writes the record back only if its version is
// still the one read. A lost race fails with CONFLICT.
func (s *MongoStore) update(ctx context.Context, id string, fn func(*Record) error) error {
	rec, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	seen := rec.Version
	if err := fn(rec); err != nil {
		return err
	}
	rec.Version = seen + 1
	res, err := s.trees.ReplaceOne(ctx,
		bson.M{"_id": id, "version": seen},
		mongoDoc{ID: id, Record: *rec})
	if err != nil {
		return fmt.Errorf("update tree %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return errConcurrentUpdate(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
