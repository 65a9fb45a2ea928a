// Package menu is the weekly hostel menu.
package menu

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
)

var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type DayMenu struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// Menu maps a weekday to its meals.
type Menu map[string]DayMenu

// Day is one row of the week, in calendar order.
type Day struct {
	Day string
	DayMenu
}

// Week returns the menu in Monday..Sunday order. Days without meals are left out.
func (m Menu) Week() []Day {
	week := make([]Day, 0, len(Days))
	for _, d := range Days {
		if dm, ok := m[d]; ok {
			week = append(week, Day{Day: d, DayMenu: dm})
		}
	}
	return week
}

func Seed() Menu {
	return Menu{
		"Monday":    {Breakfast: "Idly, Sambar", Lunch: "Rice, Dal, Veg Curry", Dinner: "Chapathi, Paneer Masala"},
		"Tuesday":   {Breakfast: "Pongal, Vada", Lunch: "Sambar Rice, Potato Fry", Dinner: "Dosa, Chutney"},
		"Wednesday": {Breakfast: "Poori, Masala", Lunch: "Lemon Rice, Curd Rice", Dinner: "Kothu Parotta"},
		"Thursday":  {Breakfast: "Upma, Kesari", Lunch: "Rice, Veg Kootu", Dinner: "Idiyappam, Stew"},
		"Friday":    {Breakfast: "Dosa, Sambar", Lunch: "Variety Rice, Appalam", Dinner: "Chapathi, Veg Kurma"},
		"Saturday":  {Breakfast: "Idly, Vada Curry", Lunch: "Veg Biryani, Raita", Dinner: "Masala Dosa"},
		"Sunday":    {Breakfast: "Aloo Paratha", Lunch: "Special Meals", Dinner: "Naan, Paneer Butter Masala"},
	}
}

var weekdayTag = "weekday"

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, weekdayTag, Days)
}

// UpdateMenu replaces the meals of the given days.
type UpdateMenu struct {
	Days map[string]DayMenu `json:"days" validate:"required,min=1,dive,keys,weekday,endkeys"`
}

func (um *UpdateMenu) Validate(validate *validator.Validate) error {
	for day, dm := range um.Days {
		um.Days[day] = DayMenu{
			Breakfast: core.CleanString(dm.Breakfast),
			Lunch:     core.CleanString(dm.Lunch),
			Dinner:    core.CleanString(dm.Dinner),
		}
	}
	return validate.Struct(um)
}

type Service struct {
	records *store.Records
}

func NewService(records *store.Records) *Service {
	return &Service{records: records}
}

func (svc *Service) Get(ctx context.Context) (Menu, error) {
	m := Seed()
	if err := svc.records.Load(ctx, store.KeyHostelMenu, &m); err != nil {
		return nil, errors.Wrap(err, "loading hostel menu")
	}
	return m, nil
}

func (svc *Service) Update(ctx context.Context, um UpdateMenu) (Menu, error) {
	m := Seed()
	err := svc.records.Update(ctx, store.KeyHostelMenu, &m, func() error {
		if m == nil {
			m = make(Menu, len(um.Days))
		}
		for day, dm := range um.Days {
			m[day] = dm
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "saving hostel menu")
	}
	return m, nil
}
