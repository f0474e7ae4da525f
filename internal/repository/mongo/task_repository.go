package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	User        primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type userRefDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

// populatedTaskDoc is the aggregation output shape: the task document plus
// the $lookup result (empty when the reference dangles).
type populatedTaskDoc struct {
	taskDoc `bson:",inline"`
	UserDoc []userRefDoc `bson:"user_doc"`
}

func (d populatedTaskDoc) toDomain() domain.Task {
	task := domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		UserID:      d.User.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if len(d.UserDoc) > 0 {
		ref := d.UserDoc[0]
		task.User = &domain.UserRef{
			ID:    ref.ID.Hex(),
			Name:  ref.Name,
			Email: ref.Email,
		}
	}
	return task
}

// lookupUserStage joins the referenced user, projecting only name and email
// (the id rides along implicitly).
func lookupUserStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": usersCollection,
		"let":  bson.M{"uid": "$user"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$uid"}}}},
			bson.M{"$project": bson.M{"name": 1, "email": 1}},
		},
		"as": "user_doc",
	}}}
}

type TaskRepository struct {
	tasks *mongo.Collection
	users *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &TaskRepository{
		tasks: db.Collection(tasksCollection),
		users: db.Collection(usersCollection),
	}
}

// Init creates an index on the user reference to keep the populate join and
// per-user scans cheap.
func (r *TaskRepository) Init(ctx context.Context) error {
	_, err := r.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create task user index: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	pipeline := mongo.Pipeline{
		lookupUserStage(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
	}
	return r.aggregate(ctx, pipeline)
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("task with id %s not found", id)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": oid}}},
		lookupUserStage(),
	}
	tasks, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperr.NotFound("task with id %s not found", id)
	}
	return &tasks[0], nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (string, error) {
	userOID, err := r.probeUser(ctx, task.UserID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		User:        userOID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.tasks.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}

	created, err := r.Get(ctx, doc.ID.Hex())
	if err != nil {
		return "", err
	}
	*task = *created
	return task.ID, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("task with id %s not found", id)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.UserID != nil {
		userOID, err := r.probeUser(ctx, *patch.UserID)
		if err != nil {
			return nil, err
		}
		set["user"] = userOID
	}

	res, err := r.tasks.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("task with id %s not found", id)
	}

	return r.Get(ctx, id)
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return r.Update(ctx, id, domain.TaskPatch{Status: &status})
}

func (r *TaskRepository) Reassign(ctx context.Context, id string, userID string) (*domain.Task, error) {
	return r.Update(ctx, id, domain.TaskPatch{UserID: &userID})
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("task with id %s not found", id)
	}

	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("task with id %s not found", id)
	}
	return nil
}

func (r *TaskRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]domain.Task, error) {
	cursor, err := r.tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []populatedTaskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]domain.Task, len(docs))
	for i := range docs {
		tasks[i] = docs[i].toDomain()
	}
	return tasks, nil
}

// probeUser verifies that the referenced user exists before a write. It
// counts instead of fetching; a failed probe is a bad reference, not a
// missing entity.
func (r *TaskRepository) probeUser(ctx context.Context, userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("referenced user %s does not exist", userID)
	}

	count, err := r.users.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		return primitive.NilObjectID, apperr.BadRequest("referenced user %s does not exist", userID)
	}
	return oid, nil
}
