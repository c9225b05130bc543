package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType distinguishes sale listings from rental listings.
type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// Currency codes accepted for pricing. UF is the inflation-indexed
// Chilean unit customarily used for real-estate prices.
type Currency string

const (
	CurrencyCLP Currency = "CLP"
	CurrencyUSD Currency = "USD"
	CurrencyUF  Currency = "UF"
)

// PropertyType is the kind of real estate being offered.
type PropertyType string

const (
	PropertyTypeCasa         PropertyType = "casa"
	PropertyTypeDepartamento PropertyType = "departamento"
	PropertyTypeOficina      PropertyType = "oficina"
	PropertyTypeTerreno      PropertyType = "terreno"
	PropertyTypeComercial    PropertyType = "comercial"
)

// PropertyStatus is the commercial state of a listing.
type PropertyStatus string

const (
	StatusDisponible PropertyStatus = "disponible"
	StatusVendido    PropertyStatus = "vendido"
	StatusArrendado  PropertyStatus = "arrendado"
	StatusReservado  PropertyStatus = "reservado"
)

// Address locates a property. All fields are required on a persisted
// property; commune and region follow the Chilean administrative division.
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	Commune string `bson:"commune" json:"commune"`
	Region  string `bson:"region" json:"region"`
	Country string `bson:"country" json:"country"`
}

// Features describes the physical characteristics of a property. Areas
// are in square meters. Optional counters are pointers so that "not
// provided" is distinguishable from zero while a draft is being filled in.
type Features struct {
	Bedrooms      *int     `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms     *int     `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	ParkingSpaces *int     `bson:"parkingSpaces,omitempty" json:"parkingSpaces,omitempty"`
	TotalArea     float64  `bson:"totalArea" json:"totalArea"`
	BuiltArea     *float64 `bson:"builtArea,omitempty" json:"builtArea,omitempty"`
	YearBuilt     *int     `bson:"yearBuilt,omitempty" json:"yearBuilt,omitempty"`
}

// ContactInfo holds the publication contact. Phone and whatsapp use the
// Chilean mobile format +56 9 XXXX XXXX.
type ContactInfo struct {
	Phone    string `bson:"phone" json:"phone"`
	Email    string `bson:"email" json:"email"`
	Whatsapp string `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
}

// PropertyImage is one entry of a property's ordered image gallery.
// The URL is issued by the object store at upload time and never changes.
// Order values within one property are unique and form a dense 0-based
// sequence after every upload, delete or reorder.
type PropertyImage struct {
	ID           string    `bson:"id" json:"id"`
	URL          string    `bson:"url" json:"url"`
	ThumbnailURL string    `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Caption      string    `bson:"caption,omitempty" json:"caption,omitempty"`
	Order        int       `bson:"order" json:"order"`
	UploadedAt   time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Property is the central listing entity. The ID is assigned by the
// document store on creation: a zero ID means the property has never been
// persisted. CreatedAt and UpdatedAt are stamped server-side on write to
// keep client clock skew out of the catalog ordering.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Type         TransactionType    `bson:"type" json:"type"`
	Price        float64            `bson:"price" json:"price"`
	Currency     Currency           `bson:"currency" json:"currency"`
	PropertyType PropertyType       `bson:"propertyType" json:"propertyType"`
	Status       PropertyStatus     `bson:"status" json:"status"`
	Address      Address            `bson:"address" json:"address"`
	Features     Features           `bson:"features" json:"features"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	Images       []PropertyImage    `bson:"images" json:"images"`
	ContactInfo  ContactInfo        `bson:"contactInfo" json:"contactInfo"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	IsFeatured   bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsPersisted reports whether the property has been written to the
// document store (i.e. has a store-assigned identifier).
func (p *Property) IsPersisted() bool {
	return !p.ID.IsZero()
}

// PropertyFilter is a conjunction of exact-match criteria for catalog
// queries. Nil fields are not applied.
type PropertyFilter struct {
	Status       *PropertyStatus
	PropertyType *PropertyType
	IsActive     *bool
	IsFeatured   *bool
}
