package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TicketRepository persists tickets
type TicketRepository struct {
	conn *Connection
}

// NewTicketRepository creates a ticket repository backed by the given connection
func NewTicketRepository(conn *Connection) *TicketRepository {
	return &TicketRepository{conn: conn}
}

// Insert stores a new ticket, assigning an ID and timestamps when unset
func (r *TicketRepository) Insert(ctx context.Context, ticket *Ticket) error {
	if ticket.ID == "" {
		ticket.ID = utils.GenerateTicketID()
	}
	now := time.Now().UTC()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now
	if ticket.Status == "" {
		ticket.Status = TicketStatusOpen
	}

	collection := r.conn.GetCollection(ticketsCollection)
	if _, err := collection.InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// FindByID retrieves a ticket by its ID
func (r *TicketRepository) FindByID(ctx context.Context, id string) (*Ticket, error) {
	collection := r.conn.GetCollection(ticketsCollection)
	var ticket Ticket
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket); err != nil {
		return nil, fmt.Errorf("failed to find ticket %s: %w", id, err)
	}
	return &ticket, nil
}

// EquipmentRepository looks up registered equipment
type EquipmentRepository struct {
	conn *Connection
}

// NewEquipmentRepository creates an equipment repository backed by the given
// connection
func NewEquipmentRepository(conn *Connection) *EquipmentRepository {
	return &EquipmentRepository{conn: conn}
}

// FindByHint returns every equipment record whose network name, serial number
// or description contains the hint, most recently updated first. Callers
// decide how to break ties when more than one record matches.
func (r *EquipmentRepository) FindByHint(ctx context.Context, hint string) ([]Equipment, error) {
	if hint == "" {
		return nil, nil
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(hint), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"network_name": pattern},
		{"serial_number": pattern},
		{"description": pattern},
	}}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(20)

	collection := r.conn.GetCollection(equipmentCollection)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search equipment: %w", err)
	}
	defer cursor.Close(ctx)

	var results []Equipment
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode equipment results: %w", err)
	}
	return results, nil
}
