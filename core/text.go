package core

// TextChannel selects the provider lane a text message goes out on.
type TextChannel string

const (
	ChannelSMS      TextChannel = "SMS"
	ChannelWhatsApp TextChannel = "WhatsApp"
)

type (
	TextMessage struct {
		To      string
		Body    string
		Channel TextChannel
	}

	// TextService is any service that can deliver SMS/WhatsApp messages.
	// Actual provider transport lives behind this interface.
	TextService interface {
		Send(msg TextMessage) error
	}
)
