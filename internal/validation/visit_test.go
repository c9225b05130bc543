package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosgl93/gumucio-propiedades/internal/models"
)

// pinnedVisitValidator returns a validator whose clock is fixed to
// Monday 2026-06-01.
func pinnedVisitValidator() *VisitOrderValidator {
	v := NewVisitOrderValidator(NewChileanRules())
	v.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return v
}

func validVisitRequest() *models.VisitOrderRequest {
	return &models.VisitOrderRequest{
		VisitorName:  "María González",
		VisitorRut:   "18.445.810-1",
		VisitorPhone: "+56 9 1234 5678",
		VisitorEmail: "maria@example.com",
		VisitDate:    "2026-06-02", // Tuesday
		VisitTime:    "11:00",
		VisitType:    models.VisitPrimera,
	}
}

func TestVisitOrderValidator_Valid(t *testing.T) {
	v := pinnedVisitValidator()
	result := v.Validate(validVisitRequest())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestVisitOrderValidator_RequiredFields(t *testing.T) {
	v := pinnedVisitValidator()
	result := v.Validate(&models.VisitOrderRequest{})
	require.False(t, result.IsValid)
	assert.Equal(t, "Nombre es requerido", GetFieldError(result.Errors, "visitorName"))
	assert.Equal(t, "RUT es requerido", GetFieldError(result.Errors, "visitorRut"))
	assert.Equal(t, "Fecha es requerida", GetFieldError(result.Errors, "visitDate"))
	assert.Equal(t, "Hora es requerida", GetFieldError(result.Errors, "visitTime"))
}

func TestVisitOrderValidator_InvalidRut(t *testing.T) {
	v := pinnedVisitValidator()
	req := validVisitRequest()
	req.VisitorRut = "18.445.810-2"
	result := v.Validate(req)
	require.False(t, result.IsValid)
	assert.Equal(t, "RUT inválido", GetFieldError(result.Errors, "visitorRut"))
}

func TestVisitOrderValidator_PastDate(t *testing.T) {
	v := pinnedVisitValidator()
	req := validVisitRequest()
	req.VisitDate = "2026-05-31"
	result := v.Validate(req)
	require.False(t, result.IsValid)
	assert.Equal(t, "La fecha no puede ser anterior a hoy", GetFieldError(result.Errors, "visitDate"))
}

func TestVisitOrderValidator_SameDayIsValid(t *testing.T) {
	v := pinnedVisitValidator()
	req := validVisitRequest()
	req.VisitDate = "2026-06-01"
	result := v.Validate(req)
	assert.True(t, result.IsValid)
}

func TestVisitOrderValidator_MalformedDateAndTime(t *testing.T) {
	v := pinnedVisitValidator()
	req := validVisitRequest()
	req.VisitDate = "01/06/2026"
	req.VisitTime = "25:99"
	result := v.Validate(req)
	require.False(t, result.IsValid)
	assert.Equal(t, "Fecha inválida", GetFieldError(result.Errors, "visitDate"))
	assert.Equal(t, "Hora inválida", GetFieldError(result.Errors, "visitTime"))
}

func TestVisitOrderValidator_BusinessHours(t *testing.T) {
	v := pinnedVisitValidator()

	tests := []struct {
		name  string
		date  string // 2026-06-02 is a Tuesday, 2026-06-06 a Saturday, 2026-06-07 a Sunday
		time  string
		valid bool
	}{
		{"weekday opening bound", "2026-06-02", "09:00", true},
		{"weekday closing bound", "2026-06-02", "18:00", true},
		{"weekday before opening", "2026-06-02", "08:59", false},
		{"weekday after closing", "2026-06-02", "18:01", false},
		{"saturday opening bound", "2026-06-06", "10:00", true},
		{"saturday closing bound", "2026-06-06", "14:00", true},
		{"saturday before opening", "2026-06-06", "09:30", false},
		{"saturday after closing", "2026-06-06", "14:01", false},
		{"sunday closed", "2026-06-07", "11:00", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validVisitRequest()
			req.VisitDate = tc.date
			req.VisitTime = tc.time
			result := v.Validate(req)
			if tc.valid {
				assert.True(t, result.IsValid)
			} else {
				require.False(t, result.IsValid)
				assert.Equal(t,
					"Horario no permitido. L-V: 09:00-18:00 | Sáb: 10:00-14:00 | Dom: No disponible",
					GetFieldError(result.Errors, "visitTime"))
			}
		})
	}
}
