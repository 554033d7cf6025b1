package ctdf

type Stop struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`
	PrimaryName       string `json:"name" groups:"basic"`

	Location Location `json:"location" groups:"basic"`
}
