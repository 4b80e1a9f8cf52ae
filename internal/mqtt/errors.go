package mqtt

import "errors"

var (
	ErrDisabled         = errors.New("mqtt: disabled in configuration")
	ErrNotConnected     = errors.New("mqtt: not connected")
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
	ErrInvalidTopic     = errors.New("mqtt: invalid topic")
	ErrInvalidQoS       = errors.New("mqtt: invalid QoS level")
)
