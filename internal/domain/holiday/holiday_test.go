package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_RegularOutranksSpecial(t *testing.T) {
	d := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar([]Holiday{
		{Date: d, Type: TypeRegular},
		{Date: d, Type: TypeSpecial},
		{Date: d.AddDate(0, 0, 1), Type: TypeSpecial},
	})

	typ, ok := cal.TypeOn(d)
	assert.True(t, ok)
	assert.Equal(t, TypeRegular, typ)

	typ, ok = cal.TypeOn(d.AddDate(0, 0, 1))
	assert.True(t, ok)
	assert.Equal(t, TypeSpecial, typ)

	_, ok = cal.TypeOn(d.AddDate(0, 0, 2))
	assert.False(t, ok)
}

func TestHolidayRequest_Validate(t *testing.T) {
	req := HolidayRequest{Name: "Rizal Day", Date: "2024-12-30", Type: "regular"}
	assert.NoError(t, req.Validate())

	req = HolidayRequest{Name: "", Date: "30-12-2024", Type: "national"}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "type")
}
