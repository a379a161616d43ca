package eventbus

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewGoChannel returns an in-memory publisher/subscriber pair for tests
// and single-process deployments, mirroring the teacher's
// pkg/channels/gochannel.CreateChannel.
func NewGoChannel(logger watermill.LoggerAdapter) *Bus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            1000,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)

	return New(pubSub, pubSub)
}
