package vulkan

import (
	"fmt"
	"weak"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/spaghettifunk/bindcache/engine/core"
)

// DescriptorSet wraps a raw descriptor set handle and caches the resources
// bound to every array element of every binding. Binding calls only touch
// the cache; the driver object is updated lazily by Bake, which
// GetDescriptorSetVk runs whenever the cache holds unwritten changes.
//
// The wrapper survives its pool being reset: the set becomes unusable until
// the pool hands it a new handle through SetNewVkHandle, after which every
// bound element is written again.
type DescriptorSet struct {
	mtSafetySupport

	name   string
	device weak.Pointer[VulkanDevice]
	pool   *DescriptorPool
	layout *DescriptorSetLayout
	handle vk.DescriptorSet

	bindings *bindingTable
	dirty    bool
	unusable bool
	released bool
}

// NewDescriptorSet wraps handle, allocated from pool with layout. Most
// callers should use DescriptorPool.AllocateDescriptorSets instead.
func NewDescriptorSet(device *VulkanDevice, pool *DescriptorPool, layout *DescriptorSetLayout, handle vk.DescriptorSet, mtSafety MTSafety) (*DescriptorSet, error) {
	if !core.Assert(pool != nil, "descriptor set created without a parent pool") {
		return nil, fmt.Errorf("parent pool: %w", core.ErrNullHandle)
	}
	if !core.Assert(layout != nil, "descriptor set created without a layout") {
		return nil, fmt.Errorf("layout: %w", core.ErrNullHandle)
	}

	ds := &DescriptorSet{
		mtSafetySupport: newMTSafetySupport(mtSafety.resolve(device)),
		name:            uuid.New().String(),
		device:          weak.Make(device),
		pool:            pool,
		layout:          layout,
		handle:          handle,
		bindings:        newBindingTable(layout.Bindings()),
	}

	pool.track(ds)
	pool.events.Register(core.EventCodeDescriptorPoolReset, ds, onParentPoolEvent)
	pool.events.Register(core.EventCodeObjectReleased, ds, onParentPoolEvent)
	layout.events.Register(core.EventCodeDescriptorSetLayoutAdjusted, ds, onLayoutAdjusted)

	core.LogDebug("descriptor set %s created with %d bindings", ds.name, len(ds.bindings.order))
	return ds, nil
}

func onParentPoolEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	ds := listenerInst.(*DescriptorSet)
	ds.lock()
	ds.unusable = true
	released := code == core.EventCodeObjectReleased
	layout := ds.layout
	if released {
		ds.pool = nil
	}
	ds.unlock()

	if released {
		// The set can never get a new handle, so nothing needs to reach it anymore.
		pool := sender.(*DescriptorPool)
		pool.events.Unregister(core.EventCodeDescriptorPoolReset, ds)
		pool.events.Unregister(core.EventCodeObjectReleased, ds)
		if layout != nil {
			layout.events.Unregister(core.EventCodeDescriptorSetLayoutAdjusted, ds)
		}
	}
	core.LogDebug("descriptor set %s marked unusable (event %d)", ds.name, code)
	// Every set allocated from the pool must hear about it.
	return false
}

func onLayoutAdjusted(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	ds := listenerInst.(*DescriptorSet)
	layout := sender.(*DescriptorSetLayout)
	bindings := layout.Bindings()

	ds.lock()
	defer ds.unlock()

	if ds.released {
		return false
	}
	ds.bindings.adjust(bindings)
	ds.bindings.markBoundDirty()
	ds.dirty = true
	core.LogDebug("descriptor set %s re-shaped to %d bindings", ds.name, len(ds.bindings.order))
	return false
}

func (ds *DescriptorSet) checkUsable() error {
	if ds.released {
		return core.ErrReleased
	}
	if ds.unusable {
		return core.ErrDescriptorSetUnusable
	}
	return nil
}

// Name is a unique identifier used in log messages.
func (ds *DescriptorSet) Name() string {
	return ds.name
}

func (ds *DescriptorSet) Layout() *DescriptorSetLayout {
	ds.lock()
	defer ds.unlock()
	return ds.layout
}

func (ds *DescriptorSet) Pool() *DescriptorPool {
	ds.lock()
	defer ds.unlock()
	return ds.pool
}

func (ds *DescriptorSet) IsDirty() bool {
	ds.lock()
	defer ds.unlock()
	return ds.dirty
}

func (ds *DescriptorSet) IsUnusable() bool {
	ds.lock()
	defer ds.unlock()
	return ds.unusable || ds.released
}

// SetBindingArrayItems assigns elements to r.Count consecutive array
// elements of binding, starting at r.Start. Elements equal to what is
// already bound are skipped and do not make the set dirty.
//
// Every element is validated before any is stored, so a failing call leaves
// the set untouched.
func (ds *DescriptorSet) SetBindingArrayItems(binding uint32, r ArrayRange, elements ...BindingElement) error {
	ds.lock()
	defer ds.unlock()

	if err := ds.checkUsable(); err != nil {
		core.Assert(false, "binding update on descriptor set %s: %s", ds.name, err)
		return err
	}
	slot, err := ds.bindings.slot(binding)
	if err != nil {
		return err
	}
	if !RangeWithin(r.Start, r.Count, uint32(len(slot.items))) {
		return fmt.Errorf("binding %d range [%d, +%d) with array size %d: %w", binding, r.Start, r.Count, len(slot.items), core.ErrArrayIndexOutOfRange)
	}
	if uint32(len(elements)) != r.Count {
		return fmt.Errorf("binding %d: %d elements for %d array slots: %w", binding, len(elements), r.Count, core.ErrElementCountMismatch)
	}

	for i, e := range elements {
		if err := validateElement(slot, e); err != nil {
			return fmt.Errorf("binding %d element %d: %w", binding, r.Start+uint32(i), err)
		}
	}

	for i, e := range elements {
		item := &slot.items[r.Start+uint32(i)]
		f := e.fields()
		if item.equals(f) {
			continue
		}
		item.assign(f)
		ds.dirty = true
	}
	return nil
}

// SetBindingItem replaces the zeroth array element of binding.
func (ds *DescriptorSet) SetBindingItem(binding uint32, element BindingElement) error {
	return ds.SetBindingArrayItems(binding, ArrayRange{Start: 0, Count: 1}, element)
}

func validateElement(slot *bindingSlot, e BindingElement) error {
	if !core.Assert(e != nil, "nil binding element") {
		return core.ErrNilResource
	}
	if e.DescriptorType() != slot.descriptorType {
		return fmt.Errorf("element type %d, binding type %d: %w", e.DescriptorType(), slot.descriptorType, core.ErrDescriptorTypeMismatch)
	}
	f := e.fields()
	var ok bool
	switch classOf(slot.descriptorType) {
	case descriptorClassBuffer:
		ok = f.buffer != nil
	case descriptorClassImage:
		ok = f.imageView != nil
	case descriptorClassCombinedImageSampler:
		ok = f.imageView != nil && (f.sampler != nil || slot.immutableSamplers)
	case descriptorClassSampler:
		ok = f.sampler != nil || slot.immutableSamplers
	case descriptorClassTexelBuffer:
		ok = f.bufferView != nil
	}
	if !core.Assert(ok, "binding element of type %d is missing a required resource", slot.descriptorType) {
		return core.ErrNilResource
	}
	return nil
}

// SetNewVkHandle revives the set with a freshly allocated handle. Drivers do
// not carry bindings over to a new handle, so every bound element is marked
// for rewriting on the next bake.
func (ds *DescriptorSet) SetNewVkHandle(handle vk.DescriptorSet) error {
	if !core.Assert(handle != nil, "SetNewVkHandle called with a null handle") {
		return core.ErrNullHandle
	}
	ds.lock()
	defer ds.unlock()

	// A set whose pool was released no longer follows its layout.
	if ds.released || ds.pool == nil {
		return core.ErrReleased
	}
	ds.handle = handle
	ds.unusable = false
	ds.bindings.markBoundDirty()
	ds.dirty = true
	return nil
}

// Bake writes every dirty binding element to the driver object. On failure
// the dirty state is kept so the next call retries the same work.
func (ds *DescriptorSet) Bake() error {
	ds.lock()
	defer ds.unlock()
	return ds.bake()
}

// GetDescriptorSetVk returns the raw handle, baking first if the cache holds
// changes the driver object has not seen. An unusable set has no valid
// handle and returns ErrDescriptorSetUnusable.
func (ds *DescriptorSet) GetDescriptorSetVk() (vk.DescriptorSet, error) {
	ds.lock()
	defer ds.unlock()

	if err := ds.checkUsable(); err != nil {
		core.Assert(false, "handle requested from descriptor set %s: %s", ds.name, err)
		return nil, err
	}
	if ds.dirty {
		if err := ds.bake(); err != nil {
			return nil, err
		}
		core.Assert(!ds.dirty, "descriptor set %s still dirty after bake", ds.name)
	}
	return ds.handle, nil
}

// Release detaches the wrapper from its pool and layout and drops every
// bound resource. The raw handle is left to the pool.
func (ds *DescriptorSet) Release() {
	ds.lock()
	if ds.released {
		ds.unlock()
		return
	}
	ds.released = true
	pool, layout := ds.pool, ds.layout
	ds.bindings.release()
	ds.pool = nil
	ds.handle = nil
	ds.dirty = false
	ds.unlock()

	if pool != nil {
		pool.events.Unregister(core.EventCodeDescriptorPoolReset, ds)
		pool.events.Unregister(core.EventCodeObjectReleased, ds)
		pool.forget(ds)
	}
	if layout != nil {
		layout.events.Unregister(core.EventCodeDescriptorSetLayoutAdjusted, ds)
	}
	core.LogDebug("descriptor set %s released", ds.name)
}
