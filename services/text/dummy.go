package textsvc

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

// DummyService records sent messages and can be scripted to fail for
// specific recipients.
type DummyService struct {
	mu       sync.Mutex
	Messages []core.TextMessage
	FailFor  map[string]bool // recipients whose sends should fail
}

var _ core.TextService = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{FailFor: make(map[string]bool)}
}

func (svc *DummyService) Send(msg core.TextMessage) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.FailFor[msg.To] {
		return errors.Errorf("delivery to %s failed", msg.To)
	}
	svc.Messages = append(svc.Messages, msg)
	return nil
}
