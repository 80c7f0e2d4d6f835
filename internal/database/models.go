package database

import "time"

// Collection names
const (
	ticketsCollection   = "tickets"
	equipmentCollection = "equipment"
)

// Ticket status values
const (
	TicketStatusOpen = "Aberto"
)

// Ticket impact criticality levels
const (
	CriticalityLow      = "Baixa"
	CriticalityMedium   = "Média"
	CriticalityHigh     = "Alta"
	CriticalityCritical = "Crítica"
)

// CategorySecurityIncident is the category assigned to tickets created from
// security alert webhooks
const CategorySecurityIncident = "Incidente de Segurança"

// Ticket represents a helpdesk ticket
type Ticket struct {
	ID                string    `bson:"_id" json:"id"`
	Title             string    `bson:"title" json:"title"`
	Description       string    `bson:"description" json:"description"`
	Category          string    `bson:"category" json:"category"`
	ImpactCriticality string    `bson:"impact_criticality" json:"impactCriticality"`
	Status            string    `bson:"status" json:"status"`
	EquipmentID       string    `bson:"equipment_id,omitempty" json:"equipmentId,omitempty"`
	Source            string    `bson:"source" json:"source"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updatedAt"`
}

// Equipment represents a registered asset that alerts can be matched against
type Equipment struct {
	ID           string    `bson:"_id" json:"id"`
	NetworkName  string    `bson:"network_name" json:"networkName"`
	SerialNumber string    `bson:"serial_number,omitempty" json:"serialNumber,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Type         string    `bson:"type,omitempty" json:"type,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
