package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindcache/engine/core"
)

func (ds *DescriptorSet) bake() error {
	if err := ds.checkUsable(); err != nil {
		core.Assert(false, "bake on descriptor set %s: %s", ds.name, err)
		return err
	}
	if !ds.dirty {
		return nil
	}

	device := ds.device.Value()
	if device == nil || device.Driver == nil {
		return fmt.Errorf("descriptor set %s: %w", ds.name, core.ErrDeviceLost)
	}

	writes := ds.collectWrites(device.CoalesceWrites.Load())
	if len(writes) > 0 {
		if res := device.Driver.UpdateDescriptorSets(writes); res != vk.Success {
			core.LogError("descriptor set %s: update of %d writes failed: %s", ds.name, len(writes), VulkanResultString(res, true))
			core.MetricsRecordFailedBake()
			return fmt.Errorf("descriptor set %s: %s: %w", ds.name, VulkanResultString(res, false), core.ErrDriverFailure)
		}
	}

	elements := 0
	for _, w := range writes {
		elements += int(w.DescriptorCount)
	}
	core.MetricsRecordBake(len(writes), elements)
	core.LogDebug("descriptor set %s baked: %d elements in %d writes", ds.name, elements, len(writes))
	ds.bindings.clearDirty()
	ds.dirty = false
	return nil
}

// writable reports whether a dirty item produces a driver write. Sampler
// bindings backed by immutable samplers have nothing to write.
func (slot *bindingSlot) writable(i int) bool {
	item := &slot.items[i]
	if !item.dirty || !item.bound {
		return false
	}
	return !(slot.immutableSamplers && classOf(slot.descriptorType) == descriptorClassSampler)
}

// collectWrites turns the dirty items into write descriptors, binding by
// binding in ascending order. With coalesce set, each maximal run of
// consecutive dirty array elements becomes one write; otherwise every
// element gets its own.
func (ds *DescriptorSet) collectWrites(coalesce bool) []vk.WriteDescriptorSet {
	var writes []vk.WriteDescriptorSet
	for _, binding := range ds.bindings.order {
		slot := ds.bindings.slots[binding]
		n := len(slot.items)
		for i := 0; i < n; {
			if !slot.writable(i) {
				i++
				continue
			}
			start := i
			i++
			for coalesce && i < n && slot.writable(i) {
				i++
			}
			writes = append(writes, ds.newWrite(binding, slot, start, i))
		}
	}
	return writes
}

func (ds *DescriptorSet) newWrite(binding uint32, slot *bindingSlot, start, end int) vk.WriteDescriptorSet {
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          ds.handle,
		DstBinding:      binding,
		DstArrayElement: uint32(start),
		DescriptorCount: uint32(end - start),
		DescriptorType:  slot.descriptorType,
	}

	items := slot.items[start:end]
	switch classOf(slot.descriptorType) {
	case descriptorClassBuffer:
		infos := make([]vk.DescriptorBufferInfo, len(items))
		for i := range items {
			infos[i] = vk.DescriptorBufferInfo{
				Buffer: items[i].buffer.handle(),
				Offset: items[i].startOffset,
				Range:  items[i].size,
			}
		}
		write.PBufferInfo = infos
	case descriptorClassImage, descriptorClassCombinedImageSampler, descriptorClassSampler:
		infos := make([]vk.DescriptorImageInfo, len(items))
		for i := range items {
			infos[i] = vk.DescriptorImageInfo{
				ImageView:   items[i].imageView.handle(),
				ImageLayout: items[i].imageLayout,
			}
			// Immutable samplers come from the layout; the sampler field is ignored.
			if !slot.immutableSamplers {
				infos[i].Sampler = items[i].sampler.handle()
			}
		}
		write.PImageInfo = infos
	case descriptorClassTexelBuffer:
		views := make([]vk.BufferView, len(items))
		for i := range items {
			views[i] = items[i].bufferView.handle()
		}
		write.PTexelBufferView = views
	}
	return write
}
