package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestBindingElementDescriptorTypes(t *testing.T) {
	buf, bufView, view, sampler := newTestBuffer(64), newTestBufferView(), newTestImageView(), newTestSampler()

	tests := []struct {
		element BindingElement
		want    vk.DescriptorType
		class   descriptorClass
	}{
		{NewStorageBufferBindingElement(buf), vk.DescriptorTypeStorageBuffer, descriptorClassBuffer},
		{NewUniformBufferBindingElement(buf), vk.DescriptorTypeUniformBuffer, descriptorClassBuffer},
		{NewDynamicStorageBufferBindingElement(buf), vk.DescriptorTypeStorageBufferDynamic, descriptorClassBuffer},
		{NewDynamicUniformBufferBindingElement(buf), vk.DescriptorTypeUniformBufferDynamic, descriptorClassBuffer},
		{NewCombinedImageSamplerBindingElement(vk.ImageLayoutGeneral, view, sampler), vk.DescriptorTypeCombinedImageSampler, descriptorClassCombinedImageSampler},
		{NewSampledImageBindingElement(vk.ImageLayoutGeneral, view), vk.DescriptorTypeSampledImage, descriptorClassImage},
		{NewStorageImageBindingElement(vk.ImageLayoutGeneral, view), vk.DescriptorTypeStorageImage, descriptorClassImage},
		{NewInputAttachmentBindingElement(vk.ImageLayoutGeneral, view), vk.DescriptorTypeInputAttachment, descriptorClassImage},
		{NewSamplerBindingElement(sampler), vk.DescriptorTypeSampler, descriptorClassSampler},
		{NewStorageTexelBufferBindingElement(bufView), vk.DescriptorTypeStorageTexelBuffer, descriptorClassTexelBuffer},
		{NewUniformTexelBufferBindingElement(bufView), vk.DescriptorTypeUniformTexelBuffer, descriptorClassTexelBuffer},
	}
	for _, tt := range tests {
		if got := tt.element.DescriptorType(); got != tt.want {
			t.Errorf("%T: DescriptorType() = %d, want %d", tt.element, got, tt.want)
		}
		if got := classOf(tt.element.DescriptorType()); got != tt.class {
			t.Errorf("%T: class %d, want %d", tt.element, got, tt.class)
		}
	}
}

func TestBindingElementCopiesShareResources(t *testing.T) {
	buf := newTestBuffer(64)
	a := NewUniformBufferBindingElementRange(buf, 16, 32)
	b := a
	if b.Buffer != a.Buffer {
		t.Fatal("copied element must reference the same buffer")
	}
	if a.Size != 32 || a.StartOffset != 16 {
		t.Fatalf("unexpected region %+v", a.BufferBindingElement)
	}
	if whole := NewUniformBufferBindingElement(buf); whole.Size != WholeSize || whole.StartOffset != 0 {
		t.Fatalf("whole-buffer element has region %+v", whole.BufferBindingElement)
	}
}

func TestBindingItemEqualityIsKindSpecific(t *testing.T) {
	view, other := newTestImageView(), newTestImageView()
	sampler := newTestSampler()

	item := newBindingItem(vk.DescriptorTypeSampledImage)
	elem := NewSampledImageBindingElement(vk.ImageLayoutGeneral, view).fields()
	if item.equals(elem) {
		t.Fatal("unbound item must differ from any element")
	}
	item.assign(elem)
	if !item.equals(elem) {
		t.Fatal("item must equal the element it was assigned")
	}

	// Fields an image binding does not use are ignored.
	withSampler := elem
	withSampler.sampler = sampler
	withSampler.startOffset = 99
	if !item.equals(withSampler) {
		t.Fatal("unused fields must not affect equality")
	}
	if item.equals(NewSampledImageBindingElement(vk.ImageLayoutShaderReadOnlyOptimal, view).fields()) {
		t.Fatal("layout change must be detected")
	}
	if item.equals(NewSampledImageBindingElement(vk.ImageLayoutGeneral, other).fields()) {
		t.Fatal("view change must be detected")
	}

	buffer := newBindingItem(vk.DescriptorTypeStorageBuffer)
	buf := newTestBuffer(128)
	buffer.assign(NewStorageBufferBindingElementRange(buf, 0, 64).fields())
	if buffer.equals(NewStorageBufferBindingElementRange(buf, 0, 128).fields()) {
		t.Fatal("size change must be detected")
	}
	if buffer.equals(NewStorageBufferBindingElementRange(buf, 64, 64).fields()) {
		t.Fatal("offset change must be detected")
	}
	if buffer.descriptorType != vk.DescriptorTypeStorageBuffer {
		t.Fatal("assign must not change the descriptor type")
	}
}

func TestRangeWithin(t *testing.T) {
	tests := []struct {
		start, count, size uint32
		want               bool
	}{
		{0, 4, 4, true},
		{3, 1, 4, true},
		{4, 0, 4, true},
		{3, 2, 4, false},
		{5, 0, 4, false},
		{1, ^uint32(0), 4, false},
	}
	for _, tt := range tests {
		if got := RangeWithin(tt.start, tt.count, tt.size); got != tt.want {
			t.Errorf("RangeWithin(%d, %d, %d) = %v, want %v", tt.start, tt.count, tt.size, got, tt.want)
		}
	}
}

func TestLayoutValidation(t *testing.T) {
	s := newTestSampler()
	tests := []struct {
		name     string
		bindings []DescriptorSetLayoutBinding
		ok       bool
	}{
		{"valid", []DescriptorSetLayoutBinding{binding(0, vk.DescriptorTypeUniformBuffer, 1), binding(2, vk.DescriptorTypeSampledImage, 8)}, true},
		{"empty array", []DescriptorSetLayoutBinding{binding(0, vk.DescriptorTypeUniformBuffer, 0)}, false},
		{"duplicate", []DescriptorSetLayoutBinding{binding(0, vk.DescriptorTypeUniformBuffer, 1), binding(0, vk.DescriptorTypeSampler, 1)}, false},
		{"immutable samplers on buffer", []DescriptorSetLayoutBinding{{Binding: 0, DescriptorType: vk.DescriptorTypeUniformBuffer, DescriptorCount: 1, ImmutableSamplers: []*Sampler{s}}}, false},
		{"immutable sampler count", []DescriptorSetLayoutBinding{{Binding: 0, DescriptorType: vk.DescriptorTypeSampler, DescriptorCount: 2, ImmutableSamplers: []*Sampler{s}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptorSetLayout(nil, tt.bindings...)
			if (err == nil) != tt.ok {
				t.Fatalf("NewDescriptorSetLayout error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestLayoutVkBindings(t *testing.T) {
	s := newTestSampler()
	layout, err := NewDescriptorSetLayout(nil,
		binding(3, vk.DescriptorTypeStorageBuffer, 1),
		DescriptorSetLayoutBinding{Binding: 1, DescriptorType: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: 1, ImmutableSamplers: []*Sampler{s}},
	)
	if err != nil {
		t.Fatal(err)
	}
	out := layout.VkBindings()
	if len(out) != 2 || out[0].Binding != 1 || out[1].Binding != 3 {
		t.Fatalf("bindings not sorted: %+v", out)
	}
	if len(out[0].PImmutableSamplers) != 1 || out[0].PImmutableSamplers[0] != s.Handle {
		t.Fatal("immutable sampler handles not converted")
	}
	if b, ok := layout.Binding(3); !ok || b.DescriptorType != vk.DescriptorTypeStorageBuffer {
		t.Fatalf("Binding(3) = %+v, %v", b, ok)
	}
}
