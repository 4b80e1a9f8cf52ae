package mqtt

import "strings"

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "faraday"

// Topics builds the topic names the daemon publishes to.
//
//	faraday/cup/state      retained StatePayload
//	faraday/cup/history    one HistoryPayload per command attempt
//	faraday/system/status  retained online/offline marker (also the LWT)
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

func (t Topics) CupState() string { return t.prefix() + "/cup/state" }

func (t Topics) CupHistory() string { return t.prefix() + "/cup/history" }

func (t Topics) SystemStatus() string { return t.prefix() + "/system/status" }
