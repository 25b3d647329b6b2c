package constants

const (
	AppName            = "carddelivery"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/carddelivery"
	DefaultDBName      = "carddelivery.db"
	Version            = "v0.3.0"

	// DateFormat is the booking date format shown and accepted by the form (dd.MM.yyyy)
	DateFormat = "02.01.2006"

	// StorageDateFormat is the date format used for persisted booking dates (YYYY-MM-DD)
	StorageDateFormat = "2006-01-02"

	// MinLeadDays is the earliest permissible booking offset from today, in days.
	MinLeadDays = 3

	// MinSuggestRunes is how many letters must be typed before the city dropdown opens.
	MinSuggestRunes = 2

	// Environment variables
	EnvConfigPath   = "CARDDELIVERY_CONFIG"
	EnvDBConnection = "CARDDELIVERY_DB_CONNECTION"

	// KeyringDBValue selects the connection string stored in the OS keyring.
	KeyringDBValue = "keyring"

	// Booking statuses
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)
