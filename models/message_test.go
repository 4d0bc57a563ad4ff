package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageIsSystem(t *testing.T) {
	sender := "user-1"
	assert.False(t, (&Message{SenderID: &sender, ContentType: ContentTypeText}).IsSystem())
	assert.True(t, (&Message{ContentType: ContentTypeSystem, SystemEvent: EventSuccess}).IsSystem())
}
