package twofactor

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/authguard/pkg/mongo"
	"github.com/dmitrymomot/authguard/pkg/twofactor"
)

// UsersCollection is the collection holding user records.
const UsersCollection = "users"

// MongoRepository stores two-factor state in the users collection under the
// two_factor subdocument.
type MongoRepository struct {
	users *mongo.Collection
}

// NewMongoRepository returns a repository over db.users.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{users: db.Collection(UsersCollection)}
}

// FindUser implements Repository.
func (r *MongoRepository) FindUser(ctx context.Context, id string) (Account, error) {
	var a Account
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if mongox.IsNotFound(err) {
		return Account{}, ErrUserNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// SaveTwoFactor implements Repository.
func (r *MongoRepository) SaveTwoFactor(ctx context.Context, id string, enabled bool, state twofactor.State) error {
	codes := state.BackupCodes
	if codes == nil {
		codes = []string{}
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"two_factor_enabled":      enabled,
		"two_factor.secret":       state.Secret,
		"two_factor.iv":           state.IV,
		"two_factor.backup_codes": codes,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ConsumeBackupCode implements Repository with a conditional $pull, so only
// one of several concurrent calls for the same hash modifies the document.
func (r *MongoRepository) ConsumeBackupCode(ctx context.Context, id, hash string) (bool, error) {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "two_factor.backup_codes": hash},
		bson.M{"$pull": bson.M{"two_factor.backup_codes": hash}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// IncrementAttempt implements Repository with $inc.
func (r *MongoRepository) IncrementAttempt(ctx context.Context, id string) (int, error) {
	var a Account
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"two_factor.attempt": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if mongox.IsNotFound(err) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return a.TwoFactor.Attempt, nil
}

// ResetAttempt implements Repository.
func (r *MongoRepository) ResetAttempt(ctx context.Context, id string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"two_factor.attempt": 0}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
