package emailsvc

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

// DummyService records sent messages and can be scripted to fail for
// specific recipients.
type DummyService struct {
	mu       sync.Mutex
	Messages []core.EmailMessage
	FailFor  map[string]bool // recipient addresses whose sends should fail
}

var _ core.EmailService = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{FailFor: make(map[string]bool)}
}

func (svc *DummyService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		_ = svc.Send(msg)
	}
}

func (svc *DummyService) Send(msg *core.EmailMessage) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, to := range msg.To {
		if svc.FailFor[to.Address] {
			return errors.Errorf("delivery to %s failed", to.Address)
		}
	}
	svc.Messages = append(svc.Messages, *msg)
	return nil
}
