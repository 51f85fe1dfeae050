package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultLookbackHours is the detection window used when a trigger
	// does not specify one.
	DefaultLookbackHours = 24

	// DefaultCoolDownHours is the suppression window for re-notifying the
	// same (event kind, entity) pair. Automations may override it.
	DefaultCoolDownHours = 2

	// DefaultRelaySubject is the NATS subject the relay delivery channel
	// publishes rendered messages to.
	DefaultRelaySubject = "clientpulse.notifications.email"
)
