package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/lottopool/lottopool/internal/core/domain"
)

const profilesCollection = "profiles"

// Profiles authenticates against the "profiles" collection, which stores a
// bcrypt hash next to each account's role.
type Profiles struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewProfiles(db *mongo.Database, timeout time.Duration) *Profiles {
	return &Profiles{col: db.Collection(profilesCollection), timeout: timeout}
}

type profileDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Role         string    `bson:"role"`
	CPF          string    `bson:"cpf,omitempty"`
	PixKey       string    `bson:"pixKey,omitempty"`
	PasswordHash string    `bson:"passwordHash"`
	Created      time.Time `bson:"created"`
}

func (d profileDoc) user() *domain.User {
	return &domain.User{
		ID:     d.ID,
		Name:   d.Name,
		Email:  d.Email,
		Role:   domain.Role(d.Role),
		CPF:    d.CPF,
		PixKey: d.PixKey,
	}
}

func (p *Profiles) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var doc profileDoc
	err := p.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, classify(profilesCollection, "sign_in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return doc.user(), nil
}

func (p *Profiles) SignUp(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	doc := profileDoc{
		ID:           ksuid.New().String(),
		Name:         name,
		Email:        normalizeEmail(email),
		Role:         string(role),
		PasswordHash: string(hash),
		Created:      time.Now().UTC(),
	}
	if _, err := p.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, classify(profilesCollection, "sign_up", err)
	}
	return doc.user(), nil
}

// EnsureIndexes makes profile emails unique.
func (p *Profiles) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := p.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
