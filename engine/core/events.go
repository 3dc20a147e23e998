package core

import "sync"

type EventContext struct {
	Data struct {
		U32 [4]uint32
		U64 [2]uint64
	}
}

// Event codes raised by descriptor objects towards the sets that depend on them.
type SystemEventCode int

const (
	// The owning pool has been reset. Every set allocated from it lost its handle.
	/* Context usage: none */
	EventCodeDescriptorPoolReset SystemEventCode = 0x01

	// Bindings of a descriptor set layout were added, removed or replaced.
	/* Context usage:
	 * u32 binding_count = data.U32[0];
	 */
	EventCodeDescriptorSetLayoutAdjusted SystemEventCode = 0x02

	// The object raising events is being released.
	/* Context usage: none */
	EventCodeObjectReleased SystemEventCode = 0x03

	MaxEventCode SystemEventCode = 0xFF
)

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus is an event table owned by a single sender object. Listeners are
// identified by their instance; one listener may register once per code.
type EventBus struct {
	mutex      sync.Mutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 */
func (eb *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil || code <= 0 || code >= MaxEventCode {
		return false
	}
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	for _, e := range eb.registered[code] {
		if e.listener == listener {
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister removes the registration of listener for code. Returns false if
// no such registration exists.
func (eb *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

func (eb *EventBus) ListenerCount(code SystemEventCode) int {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	return len(eb.registered[code])
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * Callbacks run without the bus lock held, so they may unregister themselves.
 */
func (eb *EventBus) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	eb.mutex.Lock()
	events := make([]*registeredEvent, len(eb.registered[code]))
	copy(events, eb.registered[code])
	eb.mutex.Unlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}
