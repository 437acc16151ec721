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

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

type CatRepository struct {
	coll *mongo.Collection
}

func NewCatRepository(db *mongo.Database) *CatRepository {
	return &CatRepository{coll: db.Collection(catsCollection)}
}

var _ ports.CatRepository = (*CatRepository)(nil)

type mongoCat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"cat_name"`
	Weight    float64            `bson:"weight"`
	Owner     primitive.ObjectID `bson:"owner"`
	Filename  string             `bson:"filename,omitempty"`
	Birthdate time.Time          `bson:"birthdate"`
	Location  domain.Location    `bson:"location"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mc *mongoCat) toDomain() *domain.Cat {
	return &domain.Cat{
		ID:        mc.ID.Hex(),
		Name:      mc.Name,
		Weight:    mc.Weight,
		OwnerID:   mc.Owner.Hex(),
		Filename:  mc.Filename,
		Birthdate: mc.Birthdate.UTC(),
		Location:  mc.Location,
		CreatedAt: unixToTime(mc.CreatedAt),
		UpdatedAt: unixToTime(mc.UpdatedAt),
	}
}

func (r *CatRepository) FindAll(ctx context.Context) ([]*domain.Cat, error) {
	return r.find(ctx, bson.M{})
}

func (r *CatRepository) FindByID(ctx context.Context, id string) (*domain.Cat, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCatNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var mc mongoCat
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCatNotFound
		}
		return nil, fmt.Errorf("find cat: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CatRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Cat, error) {
	oid, ok := objectID(ownerID)
	if !ok {
		return []*domain.Cat{}, nil
	}
	return r.find(ctx, bson.M{"owner": oid})
}

// FindWithinPolygon selects by inclusive range on the stored coordinates.
// $geoWithin would use geodesic edges, which bow away from the parallels of
// the rectangle and drop points lying exactly on its northern or southern
// boundary. Results are re-checked against the polygon.
func (r *CatRepository) FindWithinPolygon(ctx context.Context, poly geo.Polygon) ([]*domain.Cat, error) {
	b := poly.Bounds()
	filter := bson.M{
		"location.coordinates.0": bson.M{"$gte": b.SouthWest.Lon, "$lte": b.NorthEast.Lon},
		"location.coordinates.1": bson.M{"$gte": b.SouthWest.Lat, "$lte": b.NorthEast.Lat},
	}

	found, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}

	cats := found[:0]
	for _, c := range found {
		if poly.Contains(c.Location.Lon(), c.Location.Lat()) {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

func (r *CatRepository) Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, error) {
	owner, ok := objectID(cat.OwnerID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed owner id", domain.ErrInvalidArgument)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := mongoCat{
		ID:        primitive.NewObjectID(),
		Name:      cat.Name,
		Weight:    cat.Weight,
		Owner:     owner,
		Filename:  cat.Filename,
		Birthdate: cat.Birthdate.UTC(),
		Location:  cat.Location,
		CreatedAt: cat.CreatedAt.Unix(),
		UpdatedAt: cat.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert cat: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CatRepository) Update(ctx context.Context, id string, upd ports.CatUpdate) (*domain.Cat, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCatNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if upd.Name != nil {
		set["cat_name"] = *upd.Name
	}
	if upd.Weight != nil {
		set["weight"] = *upd.Weight
	}
	if upd.OwnerID != nil {
		owner, ok := objectID(*upd.OwnerID)
		if !ok {
			return nil, fmt.Errorf("%w: malformed owner id", domain.ErrInvalidArgument)
		}
		set["owner"] = owner
	}
	if upd.Filename != nil {
		set["filename"] = *upd.Filename
	}
	if upd.Birthdate != nil {
		set["birthdate"] = upd.Birthdate.UTC()
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var mc mongoCat
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCatNotFound
		}
		return nil, fmt.Errorf("update cat: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CatRepository) Delete(ctx context.Context, id string) (*domain.Cat, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCatNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var mc mongoCat
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCatNotFound
		}
		return nil, fmt.Errorf("delete cat: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CatRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	oid, ok := objectID(ownerID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"owner": oid})
	if err != nil {
		return 0, fmt.Errorf("delete cats of %s: %w", ownerID, err)
	}
	return res.DeletedCount, nil
}

func (r *CatRepository) find(ctx context.Context, filter bson.M) ([]*domain.Cat, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cats: %w", err)
	}

	var docs []mongoCat
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cats: %w", err)
	}

	cats := make([]*domain.Cat, 0, len(docs))
	for i := range docs {
		cats = append(cats, docs[i].toDomain())
	}
	return cats, nil
}
