package vulkan

import (
	vk "github.com/goki/vulkan"
)

// DescriptorDriver is the set of device entry points the descriptor wrappers
// call. The default implementation forwards to goki/vulkan; tests substitute
// a recording driver.
type DescriptorDriver interface {
	AllocateDescriptorSets(pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, vk.Result)
	UpdateDescriptorSets(writes []vk.WriteDescriptorSet) vk.Result
	ResetDescriptorPool(pool vk.DescriptorPool) vk.Result
}

type vulkanDescriptorDriver struct {
	device vk.Device
}

func newVulkanDescriptorDriver(device vk.Device) *vulkanDescriptorDriver {
	return &vulkanDescriptorDriver{device: device}
}

func (d *vulkanDescriptorDriver) AllocateDescriptorSets(pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, vk.Result) {
	if len(layouts) == 0 {
		return nil, vk.Success
	}
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: uint32(len(layouts)),
		PSetLayouts:        layouts,
	}
	sets := make([]vk.DescriptorSet, len(layouts))
	if res := vk.AllocateDescriptorSets(d.device, &allocInfo, &sets[0]); res != vk.Success {
		return nil, res
	}
	return sets, vk.Success
}

// vkUpdateDescriptorSets has no return value; invalid writes are reported by
// the validation layers only.
func (d *vulkanDescriptorDriver) UpdateDescriptorSets(writes []vk.WriteDescriptorSet) vk.Result {
	if len(writes) == 0 {
		return vk.Success
	}
	vk.UpdateDescriptorSets(d.device, uint32(len(writes)), writes, 0, nil)
	return vk.Success
}

func (d *vulkanDescriptorDriver) ResetDescriptorPool(pool vk.DescriptorPool) vk.Result {
	return vk.ResetDescriptorPool(d.device, pool, 0)
}
