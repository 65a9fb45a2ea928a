package menu

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/storage/inmem"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func TestMenu_Week(t *testing.T) {
	week := Seed().Week()
	require.Len(t, week, 7)
	assert.Equal(t, "Monday", week[0].Day)
	assert.Equal(t, "Idly, Sambar", week[0].Breakfast)
	assert.Equal(t, "Sunday", week[6].Day)
	assert.Equal(t, "Naan, Paneer Butter Masala", week[6].Dinner)

	assert.Len(t, Menu{"Friday": {}, "Funday": {}}.Week(), 1)
}

func TestUpdateMenu_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		days    map[string]DayMenu
		wantErr bool
	}{
		{name: "empty", days: map[string]DayMenu{}, wantErr: true},
		{name: "unknown day", days: map[string]DayMenu{"Funday": {Lunch: "Cake"}}, wantErr: true},
		{name: "lowercase day", days: map[string]DayMenu{"monday": {Lunch: "Cake"}}, wantErr: true},
		{name: "ok", days: map[string]DayMenu{"Monday": {Lunch: " Cake "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			um := UpdateMenu{Days: tt.days}
			err := um.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Cake", um.Days["Monday"].Lunch)
		})
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewRecords(inmem.New()))

	m, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Seed(), m)

	tuesday := DayMenu{Breakfast: "Bread", Lunch: "Rice", Dinner: "Soup"}
	m, err = svc.Update(ctx, UpdateMenu{Days: map[string]DayMenu{"Tuesday": tuesday}})
	require.NoError(t, err)
	assert.Equal(t, tuesday, m["Tuesday"])
	assert.Equal(t, Seed()["Monday"], m["Monday"])

	m, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, tuesday, m["Tuesday"])
}
