package note

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/second-brain/core/internal/pkg/apperr"
)

// ideaDocument mirrors the documents of the "ideas" collection. userid is
// an ObjectID for accounts created by the web app and a plain string
// otherwise, so it is decoded loosely.
type ideaDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    interface{}        `bson:"userid"`
	Title     string             `bson:"Title"`
	Tags      []string           `bson:"tags"`
	Type      string             `bson:"Type,omitempty"`
	Des       string             `bson:"des"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// MongoStore reads and writes notes in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

func (s *MongoStore) Create(ctx context.Context, rec *NoteRecord) error {
	now := s.now().UTC()
	doc := ideaDocument{
		UserID:    ownerValue(rec.OwnerID),
		Title:     rec.Title,
		Tags:      append([]string{}, rec.Tags...),
		Type:      string(rec.Kind),
		Des:       rec.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*NoteRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidInput("Invalid note ID format")
	}

	var doc ideaDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}
	rec := doc.record()
	return &rec, nil
}

func (s *MongoStore) Search(ctx context.Context, q Query) ([]NoteRecord, error) {
	filter, ok := searchFilter(q)
	if !ok {
		return []NoteRecord{}, nil
	}
	return s.find(ctx, filter, q.Limit)
}

func (s *MongoStore) List(ctx context.Context, q ListQuery) ([]NoteRecord, error) {
	return s.find(ctx, listFilter(q), q.Limit)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, limit int) ([]NoteRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	var docs []ideaDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	out := make([]NoteRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (d ideaDocument) record() NoteRecord {
	kind, ok := ParseKind(d.Type)
	if !ok {
		kind = Kind(d.Type)
	}
	return NoteRecord{
		ID:        d.ID.Hex(),
		OwnerID:   ownerString(d.UserID),
		Title:     d.Title,
		Body:      d.Des,
		Tags:      append([]string{}, d.Tags...),
		Kind:      kind,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// searchFilter builds the $or of case-insensitive regexes over Title, des
// and tags. ok is false when no usable term remains.
func searchFilter(q Query) (bson.M, bool) {
	terms := lowerTerms(q.Terms)
	if len(terms) == 0 {
		return nil, false
	}

	or := make(bson.A, 0, len(terms)*2+1)
	tagPatterns := make(bson.A, 0, len(terms))
	for _, term := range terms {
		pattern := regexp.QuoteMeta(term)
		or = append(or,
			bson.M{"Title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"des": bson.M{"$regex": pattern, "$options": "i"}},
		)
		tagPatterns = append(tagPatterns, primitive.Regex{Pattern: pattern, Options: "i"})
	}
	or = append(or, bson.M{"tags": bson.M{"$in": tagPatterns}})

	filter := bson.M{"$or": or}
	if q.OwnerID != "" {
		filter["userid"] = ownerValue(q.OwnerID)
	}
	return filter, true
}

func listFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.OwnerID != "" {
		filter["userid"] = ownerValue(q.OwnerID)
	}
	if q.Kind != "" {
		filter["Type"] = string(q.Kind)
	}
	if terms := lowerTerms([]string{q.Search}); len(terms) > 0 {
		pattern := regexp.QuoteMeta(terms[0])
		filter["$or"] = bson.A{
			bson.M{"Title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"tags": bson.M{"$in": bson.A{primitive.Regex{Pattern: pattern, Options: "i"}}}},
			bson.M{"des": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return filter
}

func ownerValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func ownerString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
