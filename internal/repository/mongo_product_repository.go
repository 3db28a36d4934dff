package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDocument is the stored shape of a product in MongoDB.
type productDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	Stock     int                `bson:"stock"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d productDocument) toModel() model.Product {
	return model.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     d.Price,
		Stock:     d.Stock,
		CreatedAt: d.CreatedAt,
	}
}

// mongoProductRepository implements the ProductRepository interface using a MongoDB collection.
type mongoProductRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoProductRepository creates a new MongoDB-backed product repository.
func NewMongoProductRepository(collection *mongo.Collection, logger zerolog.Logger) ProductRepository {
	return &mongoProductRepository{
		collection: collection,
		logger:     logger.With().Str("repository", "product").Str("driver", "mongo").Logger(),
	}
}

// ObjectIDs grow with insertion time, so sorting on _id keeps creation order.
var creationOrder = bson.D{{Key: "_id", Value: 1}}

// GetAll retrieves every product ordered by creation time.
func (r *mongoProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(creationOrder))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collect(ctx, cursor)
}

// GetByID retrieves a single product by its ID.
func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.logger.Debug().Str("product_id", id).Msg("product ID is not an ObjectID")
		return nil, nil
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	p := doc.toModel()
	return &p, nil
}

// FindByNamePatterns retrieves products whose name matches any of the patterns.
func (r *mongoProductRepository) FindByNamePatterns(ctx context.Context, patterns []string) ([]model.Product, error) {
	if len(patterns) == 0 {
		return []model.Product{}, nil
	}

	clauses := make(bson.A, 0, len(patterns))
	for _, pattern := range patterns {
		clauses = append(clauses, bson.M{"name": primitive.Regex{Pattern: pattern, Options: "is"}})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$or": clauses}, options.Find().SetSort(creationOrder))
	if err != nil {
		r.logger.Error().Err(err).Int("patterns", len(patterns)).Msg("failed to query products by name")
		return nil, fmt.Errorf("failed to query products by name: %w", err)
	}

	return r.collect(ctx, cursor)
}

// Create inserts a product, assigning its ID and creation time.
func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	doc := productDocument{
		ID:        primitive.NewObjectID(),
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	product.ID = doc.ID.Hex()
	product.CreatedAt = doc.CreatedAt

	return nil
}

// DecrementStock atomically lowers the stock of a product by one when it is positive.
func (r *mongoProductRepository) DecrementStock(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrProductNotFound
	}

	filter := bson.M{"_id": oid, "stock": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"stock": -1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		p := doc.toModel()
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to decrement stock")
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// Nothing was updated: either the product is missing or it is out of stock.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to check product existence")
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}
	if count == 0 {
		return nil, model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", id).Msg("stock exhausted")
	return nil, model.ErrInsufficientStock
}

// Delete removes a product. Returns false if it did not exist.
func (r *mongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return res.DeletedCount > 0, nil
}

// Count returns the number of stored products.
func (r *mongoProductRepository) Count(ctx context.Context) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(count), nil
}

func (r *mongoProductRepository) collect(ctx context.Context, cursor *mongo.Cursor) ([]model.Product, error) {
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode product documents")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.toModel())
	}

	return products, nil
}
