package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/carlosgl93/gumucio-propiedades/internal/models"
)

// ValidationError is a single field-scoped violation. Field uses dot
// notation for nested attributes (e.g. "address.street",
// "contactInfo.phone") so callers can map it back to an input widget.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating a candidate property.
// Errors is empty exactly when IsValid is true.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors"`
}

// LocaleRules bundles the country-specific checks the property validator
// delegates to: phone number format and national ID checksum. The only
// shipped implementation is ChileanRules.
type LocaleRules interface {
	ValidPhone(phone string) bool
	ValidNationalID(id string) bool
}

// PropertyValidator checks candidate properties against the catalog's
// field contract. It is pure and never fails: partially filled drafts
// produce required-field violations, not errors.
type PropertyValidator struct {
	rules LocaleRules

	// now is replaceable in tests to pin the yearBuilt upper bound.
	now func() time.Time
}

// NewPropertyValidator creates a validator using the given locale rules.
func NewPropertyValidator(rules LocaleRules) *PropertyValidator {
	return &PropertyValidator{rules: rules, now: time.Now}
}

const (
	maxPrice     = 1_000_000_000
	maxTotalArea = 100_000
	minTitleLen  = 10
	minDescLen   = 20
	minYearBuilt = 1800
)

// Validate evaluates every rule independently and accumulates all
// violations so a form can surface every problem at once. The returned
// error order is stable for identical input.
func (v *PropertyValidator) Validate(p *models.Property) ValidationResult {
	var errs []ValidationError

	if p == nil {
		p = &models.Property{}
	}

	// Basic information
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "El título es requerido"})
	} else if utf8.RuneCountInString(p.Title) < minTitleLen {
		errs = append(errs, ValidationError{Field: "title", Message: "El título debe tener al menos 10 caracteres"})
	}

	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "La descripción es requerida"})
	} else if utf8.RuneCountInString(p.Description) < minDescLen {
		errs = append(errs, ValidationError{Field: "description", Message: "La descripción debe tener al menos 20 caracteres"})
	}

	if p.Price <= 0 {
		errs = append(errs, ValidationError{Field: "price", Message: "El precio debe ser mayor a 0"})
	} else if p.Price > maxPrice {
		errs = append(errs, ValidationError{Field: "price", Message: "El precio es demasiado alto"})
	}

	// Enum legality is a form concern (selects only offer legal values);
	// the validator only checks that a selection was made.
	if p.Currency == "" {
		errs = append(errs, ValidationError{Field: "currency", Message: "La moneda es requerida"})
	}
	if p.PropertyType == "" {
		errs = append(errs, ValidationError{Field: "propertyType", Message: "El tipo de propiedad es requerido"})
	}
	if p.Status == "" {
		errs = append(errs, ValidationError{Field: "status", Message: "El estado es requerido"})
	}

	// Address
	if strings.TrimSpace(p.Address.Street) == "" {
		errs = append(errs, ValidationError{Field: "address.street", Message: "La dirección es requerida"})
	}
	if strings.TrimSpace(p.Address.City) == "" {
		errs = append(errs, ValidationError{Field: "address.city", Message: "La ciudad es requerida"})
	}
	if strings.TrimSpace(p.Address.Commune) == "" {
		errs = append(errs, ValidationError{Field: "address.commune", Message: "La comuna es requerida"})
	}
	if strings.TrimSpace(p.Address.Region) == "" {
		errs = append(errs, ValidationError{Field: "address.region", Message: "La región es requerida"})
	}
	if strings.TrimSpace(p.Address.Country) == "" {
		errs = append(errs, ValidationError{Field: "address.country", Message: "El país es requerido"})
	}

	// Features
	if p.Features.TotalArea <= 0 {
		errs = append(errs, ValidationError{Field: "features.totalArea", Message: "La superficie total debe ser mayor a 0"})
	} else if p.Features.TotalArea > maxTotalArea {
		errs = append(errs, ValidationError{Field: "features.totalArea", Message: "La superficie total es demasiado grande"})
	}

	if p.Features.Bedrooms != nil && *p.Features.Bedrooms < 0 {
		errs = append(errs, ValidationError{Field: "features.bedrooms", Message: "Los dormitorios no pueden ser negativos"})
	}
	if p.Features.Bathrooms != nil && *p.Features.Bathrooms < 0 {
		errs = append(errs, ValidationError{Field: "features.bathrooms", Message: "Los baños no pueden ser negativos"})
	}
	if p.Features.ParkingSpaces != nil && *p.Features.ParkingSpaces < 0 {
		errs = append(errs, ValidationError{Field: "features.parkingSpaces", Message: "Los estacionamientos no pueden ser negativos"})
	}

	if p.Features.BuiltArea != nil && *p.Features.BuiltArea < 0 {
		errs = append(errs, ValidationError{Field: "features.builtArea", Message: "La superficie construida no puede ser negativa"})
	}
	if p.Features.BuiltArea != nil && p.Features.TotalArea > 0 && *p.Features.BuiltArea > p.Features.TotalArea {
		errs = append(errs, ValidationError{Field: "features.builtArea", Message: "La superficie construida no puede ser mayor a la superficie total"})
	}

	if p.Features.YearBuilt != nil {
		currentYear := v.now().Year()
		if *p.Features.YearBuilt < minYearBuilt || *p.Features.YearBuilt > currentYear+2 {
			errs = append(errs, ValidationError{
				Field:   "features.yearBuilt",
				Message: fmt.Sprintf("El año de construcción debe estar entre 1800 y %d", currentYear+2),
			})
		}
	}

	// Contact
	if strings.TrimSpace(p.ContactInfo.Phone) == "" {
		errs = append(errs, ValidationError{Field: "contactInfo.phone", Message: "El teléfono es requerido"})
	} else if !v.rules.ValidPhone(p.ContactInfo.Phone) {
		errs = append(errs, ValidationError{Field: "contactInfo.phone", Message: "Formato de teléfono inválido (+56 9 XXXX XXXX)"})
	}

	if strings.TrimSpace(p.ContactInfo.Email) == "" {
		errs = append(errs, ValidationError{Field: "contactInfo.email", Message: "El email es requerido"})
	} else if !validEmail(p.ContactInfo.Email) {
		errs = append(errs, ValidationError{Field: "contactInfo.email", Message: "Formato de email inválido"})
	}

	if strings.TrimSpace(p.ContactInfo.Whatsapp) != "" && !v.rules.ValidPhone(p.ContactInfo.Whatsapp) {
		errs = append(errs, ValidationError{Field: "contactInfo.whatsapp", Message: "Formato de WhatsApp inválido (+56 9 XXXX XXXX)"})
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// validEmail applies the permissive local@domain.tld shape: non-whitespace
// local part, "@", non-whitespace domain containing a dot.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if strings.ContainsAny(local, " \t\n@") || strings.ContainsAny(domain, " \t\n@") {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// GetFieldError returns the message for a specific field path, or "" if
// the field has no violation.
func GetFieldError(errs []ValidationError, fieldPath string) string {
	for _, e := range errs {
		if e.Field == fieldPath {
			return e.Message
		}
	}
	return ""
}

// HasFieldError reports whether the field path has a violation.
func HasFieldError(errs []ValidationError, fieldPath string) bool {
	return GetFieldError(errs, fieldPath) != ""
}
