package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mau.fi/whatsmeow/types"
)

func TestFailedParticipants(t *testing.T) {
	added := types.GroupParticipant{JID: UserJID("33612345678")}
	blocked := types.GroupParticipant{JID: UserJID("243858704832"), Error: 403}
	missing := types.GroupParticipant{JID: UserJID("33700000000"), Error: 404}

	assert.Empty(t, failedParticipants(nil))
	assert.Empty(t, failedParticipants([]types.GroupParticipant{added}))
	assert.Equal(t,
		[]types.GroupParticipant{blocked, missing},
		failedParticipants([]types.GroupParticipant{added, blocked, missing}))
}
