package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linkvault/linkvault/internal/core/domain"
	"github.com/linkvault/linkvault/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository stores each user as one document with the section tree
// embedded. It implements ports.UserRepository and ports.SectionRepository.
type UserRepository struct {
	col *mongo.Collection
}

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.SectionRepository = (*UserRepository)(nil)
)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoLink struct {
	ID    primitive.ObjectID `bson:"_id"`
	Title string             `bson:"title"`
	URL   string             `bson:"url"`
	Logo  string             `bson:"logo,omitempty"`
}

type mongoSection struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Links []mongoLink        `bson:"links"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Sections     []mongoSection     `bson:"sections"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sections, err := toMongoSections(user.Sections)
	if err != nil {
		return nil, err
	}
	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Sections:     sections,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByLogin matches login against username or email in one query.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": login},
		bson.M{"email": login},
	}}
	return r.findOne(ctx, filter, nil)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, nil)
}

// UpdateProfile sets only the non-empty fields of update.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Username != "" {
		set["username"] = update.Username
	}
	if update.Email != "" {
		set["email"] = update.Email
	}
	if update.PasswordHash != "" {
		set["password_hash"] = update.PasswordHash
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// LoadSections reads only the embedded section tree.
func (r *UserRepository) LoadSections(ctx context.Context, userID string) ([]domain.Section, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := r.findOne(ctx, bson.M{"_id": oid}, bson.M{"sections": 1})
	if err != nil {
		return nil, err
	}
	return user.Sections, nil
}

// SaveSections replaces the whole sections array. Concurrent writers are not
// detected; the last one wins.
func (r *UserRepository) SaveSections(ctx context.Context, userID string, sections []domain.Section) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	docs, err := toMongoSections(sections)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"sections":   docs,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update sections: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique indexes that back username and email
// uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter, projection bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (u mongoUser) toDomain() *domain.User {
	sections := make([]domain.Section, len(u.Sections))
	for i, s := range u.Sections {
		links := make([]domain.Link, len(s.Links))
		for j, l := range s.Links {
			links[j] = domain.Link{ID: l.ID.Hex(), Title: l.Title, URL: l.URL, Logo: l.Logo}
		}
		sections[i] = domain.Section{ID: s.ID.Hex(), Name: s.Name, Links: links}
	}
	return &domain.User{
		ID:           u.ID.Hex(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Sections:     sections,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toMongoSections(sections []domain.Section) ([]mongoSection, error) {
	out := make([]mongoSection, len(sections))
	for i, s := range sections {
		sid, err := primitive.ObjectIDFromHex(s.ID)
		if err != nil {
			return nil, fmt.Errorf("section id %q: %w", s.ID, err)
		}
		links := make([]mongoLink, len(s.Links))
		for j, l := range s.Links {
			lid, err := primitive.ObjectIDFromHex(l.ID)
			if err != nil {
				return nil, fmt.Errorf("link id %q: %w", l.ID, err)
			}
			links[j] = mongoLink{ID: lid, Title: l.Title, URL: l.URL, Logo: l.Logo}
		}
		out[i] = mongoSection{ID: sid, Name: s.Name, Links: links}
	}
	return out, nil
}
