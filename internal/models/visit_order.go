package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VisitType classifies a property visit.
type VisitType string

const (
	VisitPrimera  VisitType = "primera"
	VisitSegunda  VisitType = "segunda"
	VisitTasacion VisitType = "tasacion"
)

// VisitOrderRequest is the candidate data for a visit order as submitted
// by the public site. RUT is carried in its display form (dots and dash);
// the validator checks the Módulo-11 checksum.
type VisitOrderRequest struct {
	VisitorName  string    `json:"visitorName"`
	VisitorRut   string    `json:"visitorRut"`
	VisitorPhone string    `json:"visitorPhone"`
	VisitorEmail string    `json:"visitorEmail"`
	VisitDate    string    `json:"visitDate"` // YYYY-MM-DD
	VisitTime    string    `json:"visitTime"` // HH:MM
	VisitType    VisitType `json:"visitType"`
}

// VisitOrder is a persisted visit appointment for a property. The PDF the
// visitor receives is rendered client-side; this record is the back-office
// audit trail.
type VisitOrder struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PropertyID   primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	VisitorName  string             `bson:"visitorName" json:"visitorName"`
	VisitorRut   string             `bson:"visitorRut" json:"visitorRut"`
	VisitorPhone string             `bson:"visitorPhone,omitempty" json:"visitorPhone,omitempty"`
	VisitorEmail string             `bson:"visitorEmail,omitempty" json:"visitorEmail,omitempty"`
	VisitDate    string             `bson:"visitDate" json:"visitDate"`
	VisitTime    string             `bson:"visitTime" json:"visitTime"`
	VisitType    VisitType          `bson:"visitType" json:"visitType"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
