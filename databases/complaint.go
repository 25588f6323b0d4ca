package databases

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fortexlabs/early-warning-api/models"
)

const complaintName = "complaints"

// ComplaintDatabase contains the methods to use with the complaint store.
// Create assigns the next id (max of existing ids plus one, never reused) and
// Find returns complaints in insertion order.
type ComplaintDatabase interface {
	Create(ctx context.Context, complaint models.Complaint) (models.Complaint, error)
	FindByID(ctx context.Context, id int) (*models.Complaint, error)
	Find(ctx context.Context) ([]models.Complaint, error)
	Replace(ctx context.Context, complaint models.Complaint) (*models.Complaint, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type complaintDatabase struct {
	db DatabaseHelper
}

// NewComplaintDatabase initializes a mongo-backed complaint store with the
// provided db connection
func NewComplaintDatabase(db DatabaseHelper) ComplaintDatabase {
	return &complaintDatabase{
		db: db,
	}
}

func (c *complaintDatabase) Create(ctx context.Context, complaint models.Complaint) (models.Complaint, error) {
	maxID := 0
	var last models.Complaint
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	err := c.db.Collection(complaintName).FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err == nil {
		maxID = last.ID
	} else if !errors.Is(err, ErrNotFound) {
		return models.Complaint{}, err
	}

	complaint.ID = maxID + 1
	if _, err := c.db.Collection(complaintName).InsertOne(ctx, complaint); err != nil {
		return models.Complaint{}, err
	}
	return complaint, nil
}

func (c *complaintDatabase) FindByID(ctx context.Context, id int) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := c.db.Collection(complaintName).FindOne(ctx, bson.M{"id": id}).Decode(complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (c *complaintDatabase) Find(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	cr := c.db.Collection(complaintName).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err := cr.Decode(&complaints); err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return complaints, nil
}

func (c *complaintDatabase) Replace(ctx context.Context, complaint models.Complaint) (*models.Complaint, error) {
	matched, err := c.db.Collection(complaintName).ReplaceOne(ctx, bson.M{"id": complaint.ID}, complaint)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrNotFound
	}
	return &complaint, nil
}

func (c *complaintDatabase) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := c.db.Collection(complaintName).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
