package models

type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is a transient message for the user.
type Notification struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Variant     NotificationVariant `json:"variant"`
}

func Success(title, description string) *Notification {
	return &Notification{Title: title, Description: description, Variant: NotificationDefault}
}

func Failure(title, description string) *Notification {
	return &Notification{Title: title, Description: description, Variant: NotificationDestructive}
}
