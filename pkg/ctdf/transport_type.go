package ctdf

type TransportType string

const (
	TransportTypeBus   TransportType = "bus"
	TransportTypeMetro TransportType = "metro"
	TransportTypeTram  TransportType = "tram"
)

func (t TransportType) IsValid() bool {
	switch t {
	case TransportTypeBus, TransportTypeMetro, TransportTypeTram:
		return true
	}

	return false
}
