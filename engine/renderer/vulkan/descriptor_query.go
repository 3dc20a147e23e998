package vulkan

import (
	vk "github.com/goki/vulkan"
)

// NumBindings tells how many bindings the cached table mirrors.
func (ds *DescriptorSet) NumBindings() int {
	ds.lock()
	defer ds.unlock()
	return len(ds.bindings.order)
}

// BindingArraySize tells how many array elements the layout declares for binding.
func (ds *DescriptorSet) BindingArraySize(binding uint32) (uint32, error) {
	ds.lock()
	defer ds.unlock()

	if err := ds.checkUsable(); err != nil {
		return 0, err
	}
	slot, err := ds.bindings.slot(binding)
	if err != nil {
		return 0, err
	}
	return uint32(len(slot.items)), nil
}

func (ds *DescriptorSet) BindingDescriptorType(binding uint32) (vk.DescriptorType, error) {
	ds.lock()
	defer ds.unlock()

	if err := ds.checkUsable(); err != nil {
		return 0, err
	}
	slot, err := ds.bindings.slot(binding)
	if err != nil {
		return 0, err
	}
	return slot.descriptorType, nil
}

func (ds *DescriptorSet) lookup(binding, element uint32, wanted ...vk.DescriptorType) (*bindingItem, error) {
	if err := ds.checkUsable(); err != nil {
		return nil, err
	}
	return ds.bindings.typedItem(binding, element, wanted...)
}

func (ds *DescriptorSet) bufferProperties(binding, element uint32, t vk.DescriptorType) (BufferBindingElement, error) {
	ds.lock()
	defer ds.unlock()

	item, err := ds.lookup(binding, element, t)
	if err != nil {
		return BufferBindingElement{}, err
	}
	return BufferBindingElement{Buffer: item.buffer, StartOffset: item.startOffset, Size: item.size}, nil
}

func (ds *DescriptorSet) imageProperties(binding, element uint32, t vk.DescriptorType) (ImageBindingElement, error) {
	ds.lock()
	defer ds.unlock()

	item, err := ds.lookup(binding, element, t)
	if err != nil {
		return ImageBindingElement{}, err
	}
	return ImageBindingElement{ImageLayout: item.imageLayout, ImageView: item.imageView}, nil
}

func (ds *DescriptorSet) texelBufferProperties(binding, element uint32, t vk.DescriptorType) (TexelBufferBindingElement, error) {
	ds.lock()
	defer ds.unlock()

	item, err := ds.lookup(binding, element, t)
	if err != nil {
		return TexelBufferBindingElement{}, err
	}
	return TexelBufferBindingElement{BufferView: item.bufferView}, nil
}

// Properties of a storage buffer binding element. An element that was never
// set reports a nil buffer.
func (ds *DescriptorSet) StorageBufferBindingProperties(binding, element uint32) (BufferBindingElement, error) {
	return ds.bufferProperties(binding, element, vk.DescriptorTypeStorageBuffer)
}

func (ds *DescriptorSet) UniformBufferBindingProperties(binding, element uint32) (BufferBindingElement, error) {
	return ds.bufferProperties(binding, element, vk.DescriptorTypeUniformBuffer)
}

func (ds *DescriptorSet) DynamicStorageBufferBindingProperties(binding, element uint32) (BufferBindingElement, error) {
	return ds.bufferProperties(binding, element, vk.DescriptorTypeStorageBufferDynamic)
}

func (ds *DescriptorSet) DynamicUniformBufferBindingProperties(binding, element uint32) (BufferBindingElement, error) {
	return ds.bufferProperties(binding, element, vk.DescriptorTypeUniformBufferDynamic)
}

func (ds *DescriptorSet) SampledImageBindingProperties(binding, element uint32) (ImageBindingElement, error) {
	return ds.imageProperties(binding, element, vk.DescriptorTypeSampledImage)
}

func (ds *DescriptorSet) StorageImageBindingProperties(binding, element uint32) (ImageBindingElement, error) {
	return ds.imageProperties(binding, element, vk.DescriptorTypeStorageImage)
}

func (ds *DescriptorSet) InputAttachmentBindingProperties(binding, element uint32) (ImageBindingElement, error) {
	return ds.imageProperties(binding, element, vk.DescriptorTypeInputAttachment)
}

func (ds *DescriptorSet) CombinedImageSamplerBindingProperties(binding, element uint32) (CombinedImageSamplerBindingElement, error) {
	ds.lock()
	defer ds.unlock()

	item, err := ds.lookup(binding, element, vk.DescriptorTypeCombinedImageSampler)
	if err != nil {
		return CombinedImageSamplerBindingElement{}, err
	}
	return CombinedImageSamplerBindingElement{
		ImageLayout: item.imageLayout,
		ImageView:   item.imageView,
		Sampler:     item.sampler,
	}, nil
}

func (ds *DescriptorSet) SamplerBindingProperties(binding, element uint32) (SamplerBindingElement, error) {
	ds.lock()
	defer ds.unlock()

	item, err := ds.lookup(binding, element, vk.DescriptorTypeSampler)
	if err != nil {
		return SamplerBindingElement{}, err
	}
	return SamplerBindingElement{Sampler: item.sampler}, nil
}

func (ds *DescriptorSet) StorageTexelBufferBindingProperties(binding, element uint32) (TexelBufferBindingElement, error) {
	return ds.texelBufferProperties(binding, element, vk.DescriptorTypeStorageTexelBuffer)
}

func (ds *DescriptorSet) UniformTexelBufferBindingProperties(binding, element uint32) (TexelBufferBindingElement, error) {
	return ds.texelBufferProperties(binding, element, vk.DescriptorTypeUniformTexelBuffer)
}
