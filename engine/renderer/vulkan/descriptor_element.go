package vulkan

import (
	vk "github.com/goki/vulkan"
)

// BindingElement describes one resource to attach to a descriptor binding
// array element. The set of implementations is closed: one type per
// descriptor type, grouped around five shared payloads.
type BindingElement interface {
	DescriptorType() vk.DescriptorType
	fields() elementFields
}

// elementFields is the payload of any element flattened into one shape, so
// the binding table can compare and assign without a type switch per variant.
type elementFields struct {
	buffer      *Buffer
	bufferView  *BufferView
	imageView   *ImageView
	sampler     *Sampler
	imageLayout vk.ImageLayout
	startOffset vk.DeviceSize
	size        vk.DeviceSize
}

type descriptorClass uint8

const (
	descriptorClassUnknown descriptorClass = iota
	descriptorClassBuffer
	descriptorClassCombinedImageSampler
	descriptorClassImage
	descriptorClassSampler
	descriptorClassTexelBuffer
)

func classOf(t vk.DescriptorType) descriptorClass {
	switch t {
	case vk.DescriptorTypeStorageBuffer, vk.DescriptorTypeUniformBuffer,
		vk.DescriptorTypeStorageBufferDynamic, vk.DescriptorTypeUniformBufferDynamic:
		return descriptorClassBuffer
	case vk.DescriptorTypeCombinedImageSampler:
		return descriptorClassCombinedImageSampler
	case vk.DescriptorTypeSampledImage, vk.DescriptorTypeStorageImage, vk.DescriptorTypeInputAttachment:
		return descriptorClassImage
	case vk.DescriptorTypeSampler:
		return descriptorClassSampler
	case vk.DescriptorTypeStorageTexelBuffer, vk.DescriptorTypeUniformTexelBuffer:
		return descriptorClassTexelBuffer
	default:
		return descriptorClassUnknown
	}
}

/**
 * @brief A buffer memory region. Embedded by the four buffer descriptor elements.
 */
type BufferBindingElement struct {
	/** @brief Buffer to bind. Must not be nil. */
	Buffer *Buffer
	/** @brief Start of the bound region, in bytes. */
	StartOffset vk.DeviceSize
	/** @brief Size of the bound region in bytes, or WholeSize. */
	Size vk.DeviceSize
}

func (e BufferBindingElement) fields() elementFields {
	return elementFields{
		buffer:      e.Buffer,
		startOffset: e.StartOffset,
		size:        e.Size,
		imageLayout: UnsetImageLayout,
	}
}

type StorageBufferBindingElement struct{ BufferBindingElement }
type UniformBufferBindingElement struct{ BufferBindingElement }
type DynamicStorageBufferBindingElement struct{ BufferBindingElement }
type DynamicUniformBufferBindingElement struct{ BufferBindingElement }

func (StorageBufferBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeStorageBuffer
}

func (UniformBufferBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeUniformBuffer
}

func (DynamicStorageBufferBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeStorageBufferDynamic
}

func (DynamicUniformBufferBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeUniformBufferDynamic
}

// NewStorageBufferBindingElement binds all of buffer's memory.
func NewStorageBufferBindingElement(buffer *Buffer) StorageBufferBindingElement {
	return NewStorageBufferBindingElementRange(buffer, 0, WholeSize)
}

func NewStorageBufferBindingElementRange(buffer *Buffer, startOffset, size vk.DeviceSize) StorageBufferBindingElement {
	return StorageBufferBindingElement{BufferBindingElement{Buffer: buffer, StartOffset: startOffset, Size: size}}
}

// NewUniformBufferBindingElement binds all of buffer's memory.
func NewUniformBufferBindingElement(buffer *Buffer) UniformBufferBindingElement {
	return NewUniformBufferBindingElementRange(buffer, 0, WholeSize)
}

func NewUniformBufferBindingElementRange(buffer *Buffer, startOffset, size vk.DeviceSize) UniformBufferBindingElement {
	return UniformBufferBindingElement{BufferBindingElement{Buffer: buffer, StartOffset: startOffset, Size: size}}
}

// NewDynamicStorageBufferBindingElement binds all of buffer's memory.
func NewDynamicStorageBufferBindingElement(buffer *Buffer) DynamicStorageBufferBindingElement {
	return NewDynamicStorageBufferBindingElementRange(buffer, 0, WholeSize)
}

func NewDynamicStorageBufferBindingElementRange(buffer *Buffer, startOffset, size vk.DeviceSize) DynamicStorageBufferBindingElement {
	return DynamicStorageBufferBindingElement{BufferBindingElement{Buffer: buffer, StartOffset: startOffset, Size: size}}
}

// NewDynamicUniformBufferBindingElement binds all of buffer's memory.
func NewDynamicUniformBufferBindingElement(buffer *Buffer) DynamicUniformBufferBindingElement {
	return NewDynamicUniformBufferBindingElementRange(buffer, 0, WholeSize)
}

func NewDynamicUniformBufferBindingElementRange(buffer *Buffer, startOffset, size vk.DeviceSize) DynamicUniformBufferBindingElement {
	return DynamicUniformBufferBindingElement{BufferBindingElement{Buffer: buffer, StartOffset: startOffset, Size: size}}
}

/**
 * @brief An image view and sampler pair. A nil Sampler means the binding
 * uses the immutable sampler declared by the layout.
 */
type CombinedImageSamplerBindingElement struct {
	ImageLayout vk.ImageLayout
	ImageView   *ImageView
	Sampler     *Sampler
}

func NewCombinedImageSamplerBindingElement(layout vk.ImageLayout, view *ImageView, sampler *Sampler) CombinedImageSamplerBindingElement {
	return CombinedImageSamplerBindingElement{ImageLayout: layout, ImageView: view, Sampler: sampler}
}

func (CombinedImageSamplerBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeCombinedImageSampler
}

func (e CombinedImageSamplerBindingElement) fields() elementFields {
	return elementFields{
		imageLayout: e.ImageLayout,
		imageView:   e.ImageView,
		sampler:     e.Sampler,
	}
}

/**
 * @brief An image view in a given layout. Embedded by the sampled image,
 * storage image and input attachment elements.
 */
type ImageBindingElement struct {
	ImageLayout vk.ImageLayout
	/** @brief Image view to bind. Must not be nil. */
	ImageView *ImageView
}

func (e ImageBindingElement) fields() elementFields {
	return elementFields{
		imageLayout: e.ImageLayout,
		imageView:   e.ImageView,
	}
}

type SampledImageBindingElement struct{ ImageBindingElement }
type StorageImageBindingElement struct{ ImageBindingElement }
type InputAttachmentBindingElement struct{ ImageBindingElement }

func (SampledImageBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeSampledImage
}

func (StorageImageBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeStorageImage
}

func (InputAttachmentBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeInputAttachment
}

func NewSampledImageBindingElement(layout vk.ImageLayout, view *ImageView) SampledImageBindingElement {
	return SampledImageBindingElement{ImageBindingElement{ImageLayout: layout, ImageView: view}}
}

func NewStorageImageBindingElement(layout vk.ImageLayout, view *ImageView) StorageImageBindingElement {
	return StorageImageBindingElement{ImageBindingElement{ImageLayout: layout, ImageView: view}}
}

func NewInputAttachmentBindingElement(layout vk.ImageLayout, view *ImageView) InputAttachmentBindingElement {
	return InputAttachmentBindingElement{ImageBindingElement{ImageLayout: layout, ImageView: view}}
}

// SamplerBindingElement binds a standalone sampler. A nil Sampler refers to
// the immutable sampler of the layout.
type SamplerBindingElement struct {
	Sampler *Sampler
}

func NewSamplerBindingElement(sampler *Sampler) SamplerBindingElement {
	return SamplerBindingElement{Sampler: sampler}
}

func (SamplerBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeSampler
}

func (e SamplerBindingElement) fields() elementFields {
	return elementFields{
		sampler:     e.Sampler,
		imageLayout: UnsetImageLayout,
	}
}

type TexelBufferBindingElement struct {
	/** @brief Buffer view to bind. Must not be nil. */
	BufferView *BufferView
}

func (e TexelBufferBindingElement) fields() elementFields {
	return elementFields{
		bufferView:  e.BufferView,
		imageLayout: UnsetImageLayout,
	}
}

type StorageTexelBufferBindingElement struct{ TexelBufferBindingElement }
type UniformTexelBufferBindingElement struct{ TexelBufferBindingElement }

func (StorageTexelBufferBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeStorageTexelBuffer
}

func (UniformTexelBufferBindingElement) DescriptorType() vk.DescriptorType {
	return vk.DescriptorTypeUniformTexelBuffer
}

func NewStorageTexelBufferBindingElement(view *BufferView) StorageTexelBufferBindingElement {
	return StorageTexelBufferBindingElement{TexelBufferBindingElement{BufferView: view}}
}

func NewUniformTexelBufferBindingElement(view *BufferView) UniformTexelBufferBindingElement {
	return UniformTexelBufferBindingElement{TexelBufferBindingElement{BufferView: view}}
}
