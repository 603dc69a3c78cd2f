package domain

import "context"

// SettingsID is the _id of the singleton settings document.
const SettingsID = "system"

// SystemSettings holds the admin-editable system configuration.
// SubscriptionWarningDays only drives notification copy in the dashboard;
// the derivation engine classifies against its own fixed threshold.
type SystemSettings struct {
	ID                       string `bson:"_id" json:"-"`
	NotificationEmail        string `bson:"notification_email" json:"notification_email"`
	EnableEmailNotifications bool   `bson:"enable_email_notifications" json:"enable_email_notifications"`
	SubscriptionWarningDays  int    `bson:"subscription_warning_days" json:"subscription_warning_days"`
	CompanyName              string `bson:"company_name" json:"company_name"`
	AllowUserRegistration    bool   `bson:"allow_user_registration" json:"allow_user_registration"`
	Theme                    string `bson:"theme" json:"theme"`
}

// DefaultSettings returns the settings installed on first boot.
func DefaultSettings() *SystemSettings {
	return &SystemSettings{
		ID:                       SettingsID,
		NotificationEmail:        "admin@example.com",
		EnableEmailNotifications: true,
		SubscriptionWarningDays:  7,
		CompanyName:              "Subscriply",
		AllowUserRegistration:    false,
		Theme:                    "light",
	}
}

// SettingsRepository manages the singleton settings document
type SettingsRepository interface {
	Get(ctx context.Context) (*SystemSettings, error)
	Update(ctx context.Context, settings *SystemSettings) error
}
