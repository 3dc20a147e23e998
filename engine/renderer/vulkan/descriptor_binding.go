package vulkan

import (
	"fmt"
	"slices"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindcache/engine/core"
)

// ArrayRange selects Count consecutive array elements of a binding, starting at Start.
type ArrayRange struct {
	Start uint32
	Count uint32
}

func (r ArrayRange) End() uint32 {
	return r.Start + r.Count
}

// bindingItem is the cached state of one (binding, array element) pair.
type bindingItem struct {
	descriptorType vk.DescriptorType

	buffer      *Buffer
	bufferView  *BufferView
	imageView   *ImageView
	sampler     *Sampler
	imageLayout vk.ImageLayout
	startOffset vk.DeviceSize
	size        vk.DeviceSize

	// bound is set once the item has been assigned an element.
	bound bool
	dirty bool
}

func newBindingItem(descriptorType vk.DescriptorType) bindingItem {
	return bindingItem{
		descriptorType: descriptorType,
		imageLayout:    UnsetImageLayout,
	}
}

// equals compares only the fields that the item's descriptor type uses.
// An item that was never bound differs from any element.
func (bi *bindingItem) equals(f elementFields) bool {
	if !bi.bound {
		return false
	}
	switch classOf(bi.descriptorType) {
	case descriptorClassBuffer:
		return bi.buffer == f.buffer && bi.startOffset == f.startOffset && bi.size == f.size
	case descriptorClassCombinedImageSampler:
		return bi.imageLayout == f.imageLayout && bi.imageView == f.imageView && bi.sampler == f.sampler
	case descriptorClassImage:
		return bi.imageLayout == f.imageLayout && bi.imageView == f.imageView
	case descriptorClassSampler:
		return bi.sampler == f.sampler
	case descriptorClassTexelBuffer:
		return bi.bufferView == f.bufferView
	default:
		return false
	}
}

// assign replaces the attached resources, dropping references the
// descriptor type does not use. The descriptor type itself never changes.
func (bi *bindingItem) assign(f elementFields) {
	item := newBindingItem(bi.descriptorType)
	switch classOf(bi.descriptorType) {
	case descriptorClassBuffer:
		item.buffer = f.buffer
		item.startOffset = f.startOffset
		item.size = f.size
	case descriptorClassCombinedImageSampler:
		item.imageLayout = f.imageLayout
		item.imageView = f.imageView
		item.sampler = f.sampler
	case descriptorClassImage:
		item.imageLayout = f.imageLayout
		item.imageView = f.imageView
	case descriptorClassSampler:
		item.sampler = f.sampler
	case descriptorClassTexelBuffer:
		item.bufferView = f.bufferView
	}
	item.bound = true
	item.dirty = true
	*bi = item
}

// bindingSlot mirrors one binding of the layout.
type bindingSlot struct {
	descriptorType    vk.DescriptorType
	immutableSamplers bool
	items             []bindingItem
}

func newBindingSlot(b DescriptorSetLayoutBinding) *bindingSlot {
	slot := &bindingSlot{
		descriptorType:    b.DescriptorType,
		immutableSamplers: b.hasImmutableSamplers(),
		items:             make([]bindingItem, b.DescriptorCount),
	}
	for i := range slot.items {
		slot.items[i] = newBindingItem(b.DescriptorType)
	}
	return slot
}

// bindingTable maps binding indices to their array elements.
type bindingTable struct {
	slots map[uint32]*bindingSlot
	// Binding indices in ascending order; bake walks the table in this order.
	order []uint32
}

func newBindingTable(bindings []DescriptorSetLayoutBinding) *bindingTable {
	bt := &bindingTable{
		slots: make(map[uint32]*bindingSlot, len(bindings)),
	}
	for _, b := range bindings {
		bt.slots[b.Binding] = newBindingSlot(b)
	}
	bt.sortOrder()
	return bt
}

func (bt *bindingTable) sortOrder() {
	bt.order = bt.order[:0]
	for n := range bt.slots {
		bt.order = append(bt.order, n)
	}
	slices.Sort(bt.order)
}

func (bt *bindingTable) slot(binding uint32) (*bindingSlot, error) {
	slot, ok := bt.slots[binding]
	if !ok {
		return nil, fmt.Errorf("binding %d: %w", binding, core.ErrBindingOutOfRange)
	}
	return slot, nil
}

func (bt *bindingTable) item(binding, element uint32) (*bindingItem, error) {
	slot, err := bt.slot(binding)
	if err != nil {
		return nil, err
	}
	if element >= uint32(len(slot.items)) {
		return nil, fmt.Errorf("binding %d element %d (array size %d): %w", binding, element, len(slot.items), core.ErrArrayIndexOutOfRange)
	}
	return &slot.items[element], nil
}

// typedItem looks up an item and checks it holds one of the wanted descriptor types.
func (bt *bindingTable) typedItem(binding, element uint32, wanted ...vk.DescriptorType) (*bindingItem, error) {
	item, err := bt.item(binding, element)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(wanted, item.descriptorType) {
		return nil, fmt.Errorf("binding %d holds descriptor type %d: %w", binding, item.descriptorType, core.ErrDescriptorTypeMismatch)
	}
	return item, nil
}

// adjust re-shapes the table after a layout change. Slots keep their bound
// elements when the descriptor type is unchanged; shrunk slots lose their
// tail, re-typed slots are reset and removed slots are dropped. A slot that
// loses its immutable samplers unbinds the items that relied on them.
func (bt *bindingTable) adjust(bindings []DescriptorSetLayoutBinding) {
	slots := make(map[uint32]*bindingSlot, len(bindings))
	for _, b := range bindings {
		old, ok := bt.slots[b.Binding]
		if !ok || old.descriptorType != b.DescriptorType {
			slots[b.Binding] = newBindingSlot(b)
			continue
		}
		count := int(b.DescriptorCount)
		if count < len(old.items) {
			clear(old.items[count:])
			old.items = old.items[:count:count]
		}
		for len(old.items) < count {
			old.items = append(old.items, newBindingItem(b.DescriptorType))
		}
		immutable := b.hasImmutableSamplers()
		if old.immutableSamplers && !immutable {
			// Items bound against the immutable samplers carry no sampler of
			// their own and cannot be written once the layout drops them.
			for i := range old.items {
				if old.items[i].bound && old.items[i].sampler == nil {
					old.items[i] = newBindingItem(b.DescriptorType)
				}
			}
		}
		old.immutableSamplers = immutable
		slots[b.Binding] = old
	}
	bt.slots = slots
	bt.sortOrder()
}

// markBoundDirty flags every bound item for rewriting and reports whether
// there is anything to write.
func (bt *bindingTable) markBoundDirty() bool {
	found := false
	for _, slot := range bt.slots {
		for i := range slot.items {
			if slot.items[i].bound {
				slot.items[i].dirty = true
				found = true
			}
		}
	}
	return found
}

func (bt *bindingTable) clearDirty() {
	for _, slot := range bt.slots {
		for i := range slot.items {
			slot.items[i].dirty = false
		}
	}
}

func (bt *bindingTable) dirtyCount() int {
	n := 0
	for _, slot := range bt.slots {
		for i := range slot.items {
			if slot.items[i].dirty {
				n++
			}
		}
	}
	return n
}

func (bt *bindingTable) release() {
	for _, slot := range bt.slots {
		clear(slot.items)
		slot.items = nil
	}
	bt.slots = map[uint32]*bindingSlot{}
	bt.order = nil
}
