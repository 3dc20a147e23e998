package vulkan

import (
	"sync/atomic"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindcache/engine/core"
)

type VulkanDevice struct {
	LogicalDevice vk.Device

	// Driver receives every descriptor allocation, update and pool reset.
	Driver DescriptorDriver

	// Default thread-safety mode for wrappers created with MTSafetyInheritFromParentDevice.
	MTSafe atomic.Bool
	// Merge contiguous dirty array elements into a single write when baking.
	CoalesceWrites atomic.Bool
}

// NewVulkanDevice wraps an already created logical device. Options come from
// the descriptors section of cfg; a nil cfg uses the defaults.
func NewVulkanDevice(logicalDevice vk.Device, cfg *core.Config) *VulkanDevice {
	vd := &VulkanDevice{
		LogicalDevice: logicalDevice,
		Driver:        newVulkanDescriptorDriver(logicalDevice),
	}
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	vd.ApplyConfig(cfg)
	return vd
}

// ApplyConfig updates the device-level descriptor options. It is safe to call
// from a ConfigWatcher callback while other goroutines bake. Wrappers created
// afterwards pick up the new thread-safety default; baking reads the
// coalescing flag on every call.
func (vd *VulkanDevice) ApplyConfig(cfg *core.Config) {
	if cfg == nil {
		return
	}
	vd.MTSafe.Store(cfg.Descriptors.MTSafe)
	vd.CoalesceWrites.Store(cfg.Descriptors.CoalesceWrites)
}
