package models

import "time"

const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

const ReservationTable = "st_reservations"
const ReservationItemTable = "st_reservation_items"
const DamageReportTable = "st_damage_reports"

// Reservation is a time-boxed booking of one or more items by a coach.
// Date is a calendar day (YYYY-MM-DD) and the window is half-open
// [StartTime, EndTime) in zero-padded HH:MM, so string comparison is
// chronological.
//
// Status is one-shot: active -> cancelled or active -> completed, nothing
// leaves a terminal state.
type Reservation struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	CoachID   string `gorm:"type:uuid;index;not null" json:"coachId"`
	CoachName string `gorm:"size:200;not null" json:"coachName"`

	Date      string `gorm:"size:10;index;not null" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`

	Status     string     `gorm:"size:20;index;not null;default:'active'" json:"status"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`

	Items []ReservationItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	// No rows means the gear came back clean; the JSON field is omitted
	// rather than serialized as an empty list.
	DamageReports []DamageReport `gorm:"constraint:OnDelete:CASCADE" json:"damageReports,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReservationItem struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	ReservationID string `gorm:"type:uuid;index;not null" json:"-"`
	ItemID        string `gorm:"type:uuid;index;not null" json:"itemId"`
	ItemName      string `gorm:"size:200;not null" json:"itemName"`
	Quantity      int    `gorm:"not null" json:"quantity"`
}

// DamageReport is attached at return time and only ever mutated by an admin
// resolving it.
type DamageReport struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	ReservationID   string `gorm:"type:uuid;index;not null" json:"-"`
	ItemID          string `gorm:"type:uuid;index;not null" json:"itemId"`
	ItemName        string `gorm:"size:200" json:"itemName"`
	QuantityDamaged int    `gorm:"not null" json:"quantityDamaged"`
	Description     string `gorm:"type:text" json:"description"`
	ReportedBy      string `gorm:"size:200" json:"reportedBy"`
	Date            string `gorm:"size:10" json:"date"`
	IsResolved      bool   `gorm:"not null;default:false" json:"isResolved"`
}

func (Reservation) TableName() string     { return ReservationTable }
func (ReservationItem) TableName() string { return ReservationItemTable }
func (DamageReport) TableName() string    { return DamageReportTable }
