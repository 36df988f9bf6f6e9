// internal/interface/repository/attendee_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const attendeeCollection = "asistentes"

// MongoAttendeeRepository implements AttendeeRepository
type MongoAttendeeRepository struct {
	collection *mongo.Collection
}

// attendeeDocument is the stored shape; _id is a native ObjectID
type attendeeDocument struct {
	ID              primitive.ObjectID       `bson:"_id"`
	Nombre          string                   `bson:"nombre"`
	PrimerApellido  string                   `bson:"primerApellido"`
	SegundoApellido string                   `bson:"segundoApellido,omitempty"`
	Telefono        string                   `bson:"telefono"`
	Email           string                   `bson:"email"`
	Ciudad          string                   `bson:"ciudad"`
	Municipio       string                   `bson:"municipio"`
	Barrio          string                   `bson:"barrio"`
	InvitadoPor     string                   `bson:"invitadoPor,omitempty"`
	PrimeraVez      string                   `bson:"primeraVez"`
	QRCode          string                   `bson:"qrCode"`
	Asistencias     []entity.AttendanceEntry `bson:"asistencias"`
	FechaRegistro   time.Time                `bson:"fechaRegistro"`
}

// NewMongoAttendeeRepository creates the repository and its indexes
func NewMongoAttendeeRepository(ctx context.Context, db *mongo.Database) (repository.AttendeeRepository, error) {
	collection := db.Collection(attendeeCollection)

	// Unique email
	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}

	// Multikey index backing the daily population count
	fechaIndex := mongo.IndexModel{
		Keys: bson.M{"asistencias.fecha": 1},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{emailIndex, fechaIndex}); err != nil {
		return nil, fmt.Errorf("failed to create attendee indexes: %w", err)
	}

	return &MongoAttendeeRepository{
		collection: collection,
	}, nil
}

// NextID allocates a new ObjectID
func (r *MongoAttendeeRepository) NextID() string {
	return primitive.NewObjectID().Hex()
}

// Create inserts a new attendee
func (r *MongoAttendeeRepository) Create(ctx context.Context, attendee *entity.Attendee) error {
	oid, err := primitive.ObjectIDFromHex(attendee.ID)
	if err != nil {
		return fmt.Errorf("invalid attendee id %q: %w", attendee.ID, err)
	}

	doc := fromEntity(attendee)
	doc.ID = oid

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.ErrValidation("El correo " + attendee.Email + " ya está registrado")
		}
		return fmt.Errorf("failed to insert attendee: %w", err)
	}
	return nil
}

// FindByID finds an attendee by id. Unknown and malformed ids are NotFound.
func (r *MongoAttendeeRepository) FindByID(ctx context.Context, id string) (*entity.Attendee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrNotFound("attendee " + id + " not found")
	}

	var doc attendeeDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound("attendee " + id + " not found")
		}
		return nil, fmt.Errorf("failed to find attendee: %w", err)
	}
	return doc.toEntity(), nil
}

// AppendAttendance pushes entry only if no entry with the same fecha exists. The match
// and the push happen in one document update, so concurrent scans cannot both append.
func (r *MongoAttendeeRepository) AppendAttendance(ctx context.Context, id string, entry entity.AttendanceEntry) (*entity.Attendee, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, entity.ErrNotFound("attendee " + id + " not found")
	}

	filter := bson.M{
		"_id":               oid,
		"asistencias.fecha": bson.M{"$ne": entry.Fecha},
	}
	update := bson.M{
		"$push": bson.M{"asistencias": entry},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc attendeeDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toEntity(), true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to append attendance: %w", err)
	}

	// No match: either the attendee does not exist or today's entry is already there
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// CountByAttendanceDate counts attendees with an entry on fecha
func (r *MongoAttendeeRepository) CountByAttendanceDate(ctx context.Context, fecha string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"asistencias.fecha": fecha})
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

func fromEntity(a *entity.Attendee) attendeeDocument {
	asistencias := a.Asistencias
	if asistencias == nil {
		// stored as [] so $push never meets a null field
		asistencias = []entity.AttendanceEntry{}
	}
	return attendeeDocument{
		Nombre:          a.Nombre,
		PrimerApellido:  a.PrimerApellido,
		SegundoApellido: a.SegundoApellido,
		Telefono:        a.Telefono,
		Email:           a.Email,
		Ciudad:          a.Ciudad,
		Municipio:       a.Municipio,
		Barrio:          a.Barrio,
		InvitadoPor:     a.InvitadoPor,
		PrimeraVez:      a.PrimeraVez,
		QRCode:          a.QRCode,
		Asistencias:     asistencias,
		FechaRegistro:   a.FechaRegistro,
	}
}

func (d attendeeDocument) toEntity() *entity.Attendee {
	return &entity.Attendee{
		ID:              d.ID.Hex(),
		Nombre:          d.Nombre,
		PrimerApellido:  d.PrimerApellido,
		SegundoApellido: d.SegundoApellido,
		Telefono:        d.Telefono,
		Email:           d.Email,
		Ciudad:          d.Ciudad,
		Municipio:       d.Municipio,
		Barrio:          d.Barrio,
		InvitadoPor:     d.InvitadoPor,
		PrimeraVez:      d.PrimeraVez,
		QRCode:          d.QRCode,
		Asistencias:     d.Asistencias,
		FechaRegistro:   d.FechaRegistro,
	}
}
