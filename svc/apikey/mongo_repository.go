package apikey

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mongox "github.com/dmitrymomot/authguard/pkg/mongo"
)

// ClientsCollection holds API client records keyed by client key.
const ClientsCollection = "api_clients"

// MongoRepository stores clients in MongoDB.
type MongoRepository struct {
	clients *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{clients: db.Collection(ClientsCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, c Client) error {
	_, err := r.clients.InsertOne(ctx, c)
	if mongox.IsDuplicateKey(err) {
		return ErrClientExists
	}
	return err
}

func (r *MongoRepository) FindByKey(ctx context.Context, key string) (Client, error) {
	var c Client
	err := r.clients.FindOne(ctx, bson.M{"_id": key}).Decode(&c)
	if mongox.IsNotFound(err) {
		return Client{}, ErrClientNotFound
	}
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func (r *MongoRepository) Revoke(ctx context.Context, key string) error {
	res, err := r.clients.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrClientNotFound
	}
	return nil
}
