package emailsvc

import (
	"github.com/darasahub/darasa/core"
)

// dummyService records sent messages without any output; tests assert on
// SentMessages.
type dummyService struct {
	consoleService
}

var _ core.EmailService = (*dummyService)(nil)

func NewDummyService(conf *core.Config) *dummyService {
	return &dummyService{
		consoleService: consoleService{
			defaultFromEmail: conf.DefaultFromEmail,
			subjPrefix:       "[" + conf.AppName + "] ",
			disableOutput:    true,
		},
	}
}

func (svc *dummyService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		// run synchronously so tests can assert on SentMessages
		svc.sendMessage(msg)
	}
}

// ClearSentMessages resets the recorded messages between tests.
func ClearSentMessages() {
	mu.Lock()
	SentMessages = SentMessages[:0]
	mu.Unlock()
}
