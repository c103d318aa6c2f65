package models

import (
	"fmt"
	"strings"
	"time"

	"cleaning-app/pkg/validator"
)

type Staff struct {
	ID              string    `bson:"_id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Phone           string    `bson:"phone" json:"phone"`
	Email           string    `bson:"email" json:"email"`
	Avatar          string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IsOnline        bool      `bson:"is_online" json:"is_online"`
	CurrentLocation Location  `bson:"current_location" json:"current_location"`
	TotalOrders     int       `bson:"total_orders" json:"total_orders"`
	CompletedOrders int       `bson:"completed_orders" json:"completed_orders"`
	Rating          float64   `bson:"rating" json:"rating"`
	JoinDate        string    `bson:"join_date" json:"join_date"`
	Settings        Settings  `bson:"settings" json:"settings"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// Settings mirrors the toggles of the staff app settings screen.
type Settings struct {
	Notifications    bool `bson:"notifications" json:"notifications"`
	LocationTracking bool `bson:"location_tracking" json:"location_tracking"`
	DarkMode         bool `bson:"dark_mode" json:"dark_mode"`
	AutoAcceptOrders bool `bson:"auto_accept_orders" json:"auto_accept_orders"`
	SoundAlerts      bool `bson:"sound_alerts" json:"sound_alerts"`
	VibrationAlerts  bool `bson:"vibration_alerts" json:"vibration_alerts"`
}

func DefaultSettings() Settings {
	return Settings{
		Notifications:    true,
		LocationTracking: true,
		SoundAlerts:      true,
		VibrationAlerts:  true,
	}
}

// ProfileUpdate is the editable part of a staff profile.
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"required,min=7"`
	Email string `json:"email" validate:"required,email"`
}

func (p ProfileUpdate) Validate() error {
	if err := validator.GetValidator().Struct(p); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
