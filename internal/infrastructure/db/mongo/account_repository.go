package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reviewly/review-service/internal/core/domain"
)

const (
	accountsCollection = "accounts"

	siteIndexName  = "accounts_site_unique"
	emailIndexName = "accounts_email_unique"
)

type AccountRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAccountRepository(db *mongo.Database, timeout time.Duration) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection), timeout: timeout}
}

type mongoAccount struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Site      string             `bson:"site"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		Site:         m.Site,
		PasswordHash: m.Password,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoAccount{
		ID:        primitive.NewObjectID(),
		Name:      account.Name,
		Email:     account.Email,
		Site:      account.Site,
		Password:  account.PasswordHash,
		CreatedAt: account.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ConflictError{Field: duplicateField(err)}
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *AccountRepository) FindBySite(ctx context.Context, site string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"site": site})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByEmailAndSite(ctx context.Context, email, site string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email, "site": site})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ma mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

// EnsureIndexes creates the unique indexes that guard site and email.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "site", Value: 1}}, Options: options.Index().SetUnique(true).SetName(siteIndexName)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndexName)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

// duplicateField names the account field whose unique index rejected a write.
// The server reports the index name in the E11000 message.
func duplicateField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, siteIndexName) {
				return domain.FieldSite
			}
			if strings.Contains(e.Message, emailIndexName) {
				return domain.FieldEmail
			}
		}
	}
	if strings.Contains(err.Error(), siteIndexName) {
		return domain.FieldSite
	}
	return domain.FieldEmail
}
