package vulkan

import "sync"

type MTSafety uint8

const (
	MTSafetyInheritFromParentDevice MTSafety = iota
	MTSafetyEnabled
	MTSafetyDisabled
)

func (m MTSafety) resolve(device *VulkanDevice) bool {
	switch m {
	case MTSafetyEnabled:
		return true
	case MTSafetyDisabled:
		return false
	default:
		return device != nil && device.MTSafe.Load()
	}
}

// mtSafetySupport serializes calls on a wrapper when thread safety was
// requested. With safety disabled the lock is nil and locking is a no-op.
type mtSafetySupport struct {
	mu *sync.Mutex
}

func newMTSafetySupport(enabled bool) mtSafetySupport {
	if enabled {
		return mtSafetySupport{mu: &sync.Mutex{}}
	}
	return mtSafetySupport{}
}

func (m *mtSafetySupport) IsMTSafe() bool {
	return m.mu != nil
}

func (m *mtSafetySupport) lock() {
	if m.mu != nil {
		m.mu.Lock()
	}
}

func (m *mtSafetySupport) unlock() {
	if m.mu != nil {
		m.mu.Unlock()
	}
}
