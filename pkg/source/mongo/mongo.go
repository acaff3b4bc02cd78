// Package mongo loads follow graphs from a MongoDB collection.
//
// Each document holds one follow relation:
//
//	{"source": "214328887", "target": "34428380"}
//
// Documents are read in natural order, so the first documents inserted
// become the first relations, mirroring the edge-list loader. Relation ids
// are assigned e0, e1, ... in read order. Documents with missing or invalid
// endpoints are skipped.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
	fgio "github.com/matzehuels/followgraph/pkg/io"
	"github.com/matzehuels/followgraph/pkg/source"
)

// Defaults for Config fields left empty.
const (
	DefaultDatabase   = "followgraph"
	DefaultCollection = "follows"
	connectTimeout    = 10 * time.Second
)

// Config identifies the collection to read.
type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Source reads relations from MongoDB.
type Source struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string

	// Skipped counts documents dropped by the last Load.
	Skipped int
}

// follow is the stored document shape.
type follow struct {
	Source string `bson:"source"`
	Target string `bson:"target"`
}

// Open connects to MongoDB and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	if err := fgerrors.ValidateURL(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fgerrors.Wrap(networkCode(err), err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fgerrors.Wrap(networkCode(err), err, "ping mongodb")
	}

	return &Source{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		name:   fmt.Sprintf("mongodb:%s.%s", cfg.Database, cfg.Collection),
	}, nil
}

// Name returns "mongodb:<database>.<collection>".
func (s *Source) Name() string { return s.name }

// Load reads up to limit documents and builds a graph from them.
func (s *Source) Load(ctx context.Context, limit int) (*graph.Graph, error) {
	if limit == 0 {
		limit = fgio.DefaultLimit
	}
	opts := options.Find().SetProjection(bson.D{{Key: "source", Value: 1}, {Key: "target", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fgerrors.Wrap(networkCode(err), err, "query %s", s.name)
	}
	defer cur.Close(ctx)

	b := graph.NewBuilder()
	s.Skipped = 0
	n := 0
	for cur.Next(ctx) {
		var doc follow
		if err := cur.Decode(&doc); err != nil {
			s.Skipped++
			continue
		}
		if !addFollow(b, n, doc) {
			s.Skipped++
			continue
		}
		n++
	}
	if err := cur.Err(); err != nil {
		return nil, fgerrors.Wrap(networkCode(err), err, "read %s", s.name)
	}
	return b.Build(), nil
}

// networkCode classifies a driver error: timeouts (including an expired
// connect deadline) are TIMEOUT, everything else NETWORK_ERROR.
func networkCode(err error) fgerrors.Code {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return fgerrors.ErrCodeTimeout
	}
	return fgerrors.ErrCodeNetwork
}

// addFollow appends doc as relation e<n>, reporting whether it was valid.
func addFollow(b *graph.Builder, n int, doc follow) bool {
	if fgerrors.ValidateNodeID(doc.Source) != nil || fgerrors.ValidateNodeID(doc.Target) != nil {
		return false
	}
	return b.AddRelation(graph.Relation{ID: fmt.Sprintf("e%d", n), Source: doc.Source, Target: doc.Target}) == nil
}

// Close disconnects from MongoDB.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ source.Source = (*Source)(nil)
