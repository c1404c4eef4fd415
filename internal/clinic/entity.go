package clinic

// EntityType names one of the three record kinds.
type EntityType string

const (
	EntityPatient     EntityType = "patient"
	EntityDoctor      EntityType = "doctor"
	EntityAppointment EntityType = "appointment"
)

func (e EntityType) String() string {
	return string(e)
}

// Entity is anything a Registry can hold.
type Entity interface {
	ID() string
}
