package vulkan

import vk "github.com/goki/vulkan"

// The wrappers below are owned by their creators. A descriptor set only keeps
// pointers to them while they are bound, which keeps them reachable.

type Buffer struct {
	Handle vk.Buffer
	Size   vk.DeviceSize
}

type BufferView struct {
	Handle vk.BufferView
	Buffer *Buffer
}

type ImageView struct {
	Handle vk.ImageView
}

type Sampler struct {
	Handle vk.Sampler
}

func (b *Buffer) handle() vk.Buffer {
	if b == nil {
		return nil
	}
	return b.Handle
}

func (bv *BufferView) handle() vk.BufferView {
	if bv == nil {
		return nil
	}
	return bv.Handle
}

func (iv *ImageView) handle() vk.ImageView {
	if iv == nil {
		return nil
	}
	return iv.Handle
}

func (s *Sampler) handle() vk.Sampler {
	if s == nil {
		return nil
	}
	return s.Handle
}
