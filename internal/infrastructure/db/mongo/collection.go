package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// Collection is a ports.RemoteCollection over one MongoDB collection.
// New documents get a KSUID as _id and a server-side "created" stamp.
type Collection[T domain.Entity[T]] struct {
	col     *mongo.Collection
	name    string
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

func NewCollection[T domain.Entity[T]](db *mongo.Database, name string, timeout time.Duration, log zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		col:     db.Collection(name),
		name:    name,
		timeout: timeout,
		now:     time.Now,
		log:     log.With().Str("backend", backendName).Str("collection", name).Logger(),
	}
}

func (c *Collection[T]) List(ctx context.Context, sort ports.Sort) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := options.Find()
	if sort.Field != "" {
		dir := 1
		if sort.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: fieldName(sort.Field), Value: dir}})
	}

	cur, err := c.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(c.name, "list", err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, c.decodeErr("list", err)
	}
	return out, nil
}

func (c *Collection[T]) GetOne(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rec T
	if err := c.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return rec, classify(c.name, "get_one", err)
	}
	return rec, nil
}

func (c *Collection[T]) Create(ctx context.Context, record T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var zero T
	if record.RecordID() == "" {
		record = record.WithID(ksuid.New().String())
	}
	doc, err := toDocument(record)
	if err != nil {
		return zero, c.decodeErr("create", err)
	}
	if dt, ok := doc["created"].(primitive.DateTime); !ok || dt.Time().IsZero() {
		doc["created"] = primitive.NewDateTimeFromTime(c.now().UTC())
	}

	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		return zero, classify(c.name, "create", err)
	}

	created, err := fromDocument[T](doc)
	if err != nil {
		return zero, c.decodeErr("create", err)
	}
	return created, nil
}

// Update $sets the patched fields and returns the updated document. The id
// itself is never patched.
func (c *Collection[T]) Update(ctx context.Context, id string, patch domain.Patch) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rec T
	set, err := toDocument(map[string]any(patch))
	if err != nil {
		return rec, c.decodeErr("update", err)
	}
	delete(set, "id")
	delete(set, "_id")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := c.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts)
	if err := res.Decode(&rec); err != nil {
		return rec, classify(c.name, "update", err)
	}
	return rec, nil
}

type changeDoc struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument bson.Raw `bson:"fullDocument"`
}

// Subscribe opens a change stream on the collection. Change streams need a
// replica set; a standalone server reports the subscription as unsupported.
func (c *Collection[T]) Subscribe(ctx context.Context, fn func(domain.ChangeEvent[T])) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := c.col.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return classify(c.name, "subscribe", err)
	}

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var ch changeDoc
			if err := stream.Decode(&ch); err != nil {
				c.log.Warn().Err(err).Msg("skipping undecodable change event")
				continue
			}
			ev, ok := c.toEvent(ch)
			if !ok {
				continue
			}
			fn(ev)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			c.log.Warn().Err(err).Msg("change stream closed")
		}
	}()
	return nil
}

func (c *Collection[T]) toEvent(ch changeDoc) (domain.ChangeEvent[T], bool) {
	ev := domain.ChangeEvent[T]{ID: ch.DocumentKey.ID}
	switch ch.OperationType {
	case "insert":
		ev.Action = domain.ChangeCreate
	case "update", "replace":
		ev.Action = domain.ChangeUpdate
	case "delete":
		ev.Action = domain.ChangeDelete
		return ev, true
	default:
		return ev, false
	}
	if len(ch.FullDocument) > 0 {
		var rec T
		if err := bson.Unmarshal(ch.FullDocument, &rec); err == nil {
			ev.Record = &rec
		}
	}
	return ev, true
}

func (c *Collection[T]) decodeErr(op string, err error) error {
	return &domain.RemoteError{
		Backend:    backendName,
		Collection: c.name,
		Op:         op,
		Kind:       domain.KindDecode,
		Err:        err,
	}
}

// fieldName maps a record field to its document field.
func fieldName(f string) string {
	if f == "id" {
		return "_id"
	}
	return f
}

func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func fromDocument[T any](doc bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}
