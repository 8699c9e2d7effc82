package textsvc

import (
	"log"
	"sync"

	"github.com/trezcool/mahudhurio/core"
)

var (
	SentMessages = make([]core.TextMessage, 0)
	mu           sync.Mutex
)

// consoleService writes SMS/WhatsApp messages to the log instead of a
// provider. Used in development and as a stand-in until a gateway is
// configured.
type consoleService struct {
	smsSender      string
	whatsAppSender string
}

var _ core.TextService = (*consoleService)(nil)

func NewConsoleService() core.TextService {
	return &consoleService{
		smsSender:      core.Conf.Notification.SMSSender,
		whatsAppSender: core.Conf.Notification.WhatsAppSender,
	}
}

func (svc consoleService) Send(msg core.TextMessage) error {
	sender := svc.smsSender
	if msg.Channel == core.ChannelWhatsApp {
		sender = svc.whatsAppSender
	}
	log.Printf("%s\nFrom: %s\nTo: %s\n\n%s\n", msg.Channel, sender, msg.To, msg.Body)
	mu.Lock()
	SentMessages = append(SentMessages, msg)
	mu.Unlock()
	return nil
}
