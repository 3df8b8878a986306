package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	products *mongo.Collection
	bundles  *mongo.Collection
	promos   *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		products: db.Collection("products"),
		bundles:  db.Collection("bundles"),
		promos:   db.Collection("promos"),
	}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *MongoRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *MongoRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m *MongoRepository) InsertProduct(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	if _, err := m.products.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (m *MongoRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	filter := bson.M{"_id": product.ID}
	update := bson.M{"$set": bson.M{
		"name":         product.Name,
		"price":        product.Price,
		"category":     product.Category,
		"sizes":        product.Sizes,
		"image_urls":   product.ImageURLs,
		"description":  product.Description,
		"stock":        product.Stock,
		"is_bundle":    product.IsBundle,
		"bundle_items": product.BundleItems,
	}}

	result, err := m.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *MongoRepository) DeleteProduct(ctx context.Context, id string) error {
	result, err := m.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *MongoRepository) ListBundles(ctx context.Context) ([]*domain.Bundle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.bundles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundles: %w", err)
	}
	defer cursor.Close(ctx)

	var bundles []*domain.Bundle
	if err := cursor.All(ctx, &bundles); err != nil {
		return nil, fmt.Errorf("failed to decode bundles: %w", err)
	}
	return bundles, nil
}

func (m *MongoRepository) InsertBundle(ctx context.Context, bundle *domain.Bundle) error {
	if bundle.ID == "" {
		bundle.ID = primitive.NewObjectID().Hex()
	}
	if bundle.CreatedAt.IsZero() {
		bundle.CreatedAt = time.Now()
	}

	if _, err := m.bundles.InsertOne(ctx, bundle); err != nil {
		return fmt.Errorf("failed to insert bundle: %w", err)
	}
	return nil
}

func (m *MongoRepository) DeleteBundle(ctx context.Context, id string) error {
	result, err := m.bundles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrBundleNotFound
	}
	return nil
}

func (m *MongoRepository) ListPromos(ctx context.Context) ([]*domain.PromoCode, error) {
	cursor, err := m.promos.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query promos: %w", err)
	}
	defer cursor.Close(ctx)

	var promos []*domain.PromoCode
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("failed to decode promos: %w", err)
	}
	return promos, nil
}

func (m *MongoRepository) GetPromoByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := m.promos.FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&promo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPromoNotFound
		}
		return nil, fmt.Errorf("failed to get promo: %w", err)
	}
	return &promo, nil
}

func (m *MongoRepository) InsertPromo(ctx context.Context, promo *domain.PromoCode) error {
	if promo.ID == "" {
		promo.ID = primitive.NewObjectID().Hex()
	}
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = time.Now()
	}
	promo.Code = strings.ToUpper(promo.Code)

	if _, err := m.promos.InsertOne(ctx, promo); err != nil {
		return fmt.Errorf("failed to insert promo: %w", err)
	}
	return nil
}

func (m *MongoRepository) SetPromoActive(ctx context.Context, id string, active bool) error {
	result, err := m.promos.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return fmt.Errorf("failed to update promo: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func (m *MongoRepository) DeletePromo(ctx context.Context, id string) error {
	result, err := m.promos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrPromoNotFound
	}
	return nil
}

// CreateIndexes sets up the unique promo-code index. Safe to call on every
// startup.
func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.promos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
