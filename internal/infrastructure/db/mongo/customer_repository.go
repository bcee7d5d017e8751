package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/ports"
)

const (
	collectionCustomers = "customers"
	collectionOrders    = "orders"
	collectionCounters  = "counters"

	sequenceCustomers = "customers"
	sequenceAddresses = "addresses"
)

// sortFields maps public sort field names onto document fields.
var sortFields = map[string]string{
	"id":        "_id",
	"name":      "name",
	"nome":      "name",
	"email":     "email",
	"document":  "document",
	"type":      "type",
	"createdAt": "created_at",
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository stores each customer as one document with its addresses
// embedded, so a single insert covers the whole aggregate.
type CustomerRepository struct {
	col      *mongo.Collection
	orders   *mongo.Collection
	counters *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		col:      db.Collection(collectionCustomers),
		orders:   db.Collection(collectionOrders),
		counters: db.Collection(collectionCounters),
	}
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *CustomerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Customer
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *c
	id, err := r.nextSequence(ctx, sequenceCustomers)
	if err != nil {
		return nil, err
	}
	stored.ID = id

	stored.Addresses = make([]domain.Address, len(c.Addresses))
	for i, a := range c.Addresses {
		if a.ID, err = r.nextSequence(ctx, sequenceAddresses); err != nil {
			return nil, err
		}
		stored.Addresses[i] = a
	}
	if stored.Phones == nil {
		stored.Phones = []string{}
	}

	if _, err := r.col.InsertOne(ctx, &stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return &stored, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       c.Name,
		"email":      c.Email,
		"updated_at": c.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Customer
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": c.ID}, update, opts).Decode(&updated); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrCustomerNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteByID refuses to delete while any order document references the customer.
func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.orders.CountDocuments(ctx, bson.M{"customer_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: customer %d is referenced by orders", domain.ErrIntegrityViolation, id)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *CustomerRepository) FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Customer], error) {
	sort, err := sortDocument(req.SortField, req.Direction)
	if err != nil {
		return nil, err
	}

	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	total, err := r.col.CountDocuments(countCtx, bson.M{})
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(req.Offset()).
		SetLimit(int64(req.Size))

	content, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(content, req, total), nil
}

func (r *CustomerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Customer
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) nextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// EnsureIndexes creates the unique email index and the order lookup index.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	_, err := r.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customer_id", Value: 1}},
	})
	return err
}

func sortDocument(field string, dir domain.SortDirection) (bson.D, error) {
	key, ok := sortFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, field)
	}
	order := 1
	if dir == domain.SortDesc {
		order = -1
	}
	if key == "_id" {
		return bson.D{{Key: "_id", Value: order}}, nil
	}
	return bson.D{{Key: key, Value: order}, {Key: "_id", Value: order}}, nil
}
