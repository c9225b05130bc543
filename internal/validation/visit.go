package validation

import (
	"strings"
	"time"

	"github.com/carlosgl93/gumucio-propiedades/internal/models"
)

// VisitOrderValidator checks visit order requests: visitor identity
// (name + RUT) and the appointment slot against the agency's business
// hours.
type VisitOrderValidator struct {
	rules LocaleRules
	now   func() time.Time
}

// NewVisitOrderValidator creates a validator using the given locale rules.
func NewVisitOrderValidator(rules LocaleRules) *VisitOrderValidator {
	return &VisitOrderValidator{rules: rules, now: time.Now}
}

// Validate accumulates all violations of a visit order request. Visitor
// phone and email are optional contact conveniences and are not checked.
func (v *VisitOrderValidator) Validate(req *models.VisitOrderRequest) ValidationResult {
	var errs []ValidationError

	if req == nil {
		req = &models.VisitOrderRequest{}
	}

	if strings.TrimSpace(req.VisitorName) == "" {
		errs = append(errs, ValidationError{Field: "visitorName", Message: "Nombre es requerido"})
	}

	if strings.TrimSpace(req.VisitorRut) == "" {
		errs = append(errs, ValidationError{Field: "visitorRut", Message: "RUT es requerido"})
	} else if !v.rules.ValidNationalID(req.VisitorRut) {
		errs = append(errs, ValidationError{Field: "visitorRut", Message: "RUT inválido"})
	}

	var visitDate time.Time
	dateOK := false
	if req.VisitDate == "" {
		errs = append(errs, ValidationError{Field: "visitDate", Message: "Fecha es requerida"})
	} else if d, err := time.Parse("2006-01-02", req.VisitDate); err != nil {
		errs = append(errs, ValidationError{Field: "visitDate", Message: "Fecha inválida"})
	} else {
		visitDate = d
		dateOK = true
		today := v.now()
		today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, d.Location())
		if d.Before(today) {
			errs = append(errs, ValidationError{Field: "visitDate", Message: "La fecha no puede ser anterior a hoy"})
		}
	}

	if req.VisitTime == "" {
		errs = append(errs, ValidationError{Field: "visitTime", Message: "Hora es requerida"})
	} else if _, err := time.Parse("15:04", req.VisitTime); err != nil {
		errs = append(errs, ValidationError{Field: "visitTime", Message: "Hora inválida"})
	} else if dateOK && !withinBusinessHours(visitDate, req.VisitTime) {
		errs = append(errs, ValidationError{Field: "visitTime", Message: "Horario no permitido. L-V: 09:00-18:00 | Sáb: 10:00-14:00 | Dom: No disponible"})
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// withinBusinessHours checks the slot against the agency's schedule:
// Monday-Friday 09:00-18:00, Saturday 10:00-14:00, closed on Sunday.
// Both window bounds are inclusive.
func withinBusinessHours(date time.Time, hhmm string) bool {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()

	switch date.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		return minutes >= 10*60 && minutes <= 14*60
	default:
		return minutes >= 9*60 && minutes <= 18*60
	}
}
