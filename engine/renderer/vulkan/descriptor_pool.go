package vulkan

import (
	"fmt"
	"slices"
	"sync"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindcache/engine/core"
)

// DescriptorPool owns the raw descriptor sets allocated from it. Resetting
// the pool invalidates every raw set at once; the wrappers survive and can be
// revived with Reallocate.
type DescriptorPool struct {
	Handle vk.DescriptorPool

	device *VulkanDevice

	mutex    sync.Mutex
	sets     []*DescriptorSet
	events   *core.EventBus
	released bool
}

func NewDescriptorPool(device *VulkanDevice, handle vk.DescriptorPool) (*DescriptorPool, error) {
	if !core.Assert(device != nil, "descriptor pool created without a device") {
		return nil, fmt.Errorf("device: %w", core.ErrNullHandle)
	}
	return &DescriptorPool{
		Handle: handle,
		device: device,
		events: core.NewEventBus(),
	}, nil
}

// AllocateDescriptorSets allocates one raw set per layout in a single driver
// call and wraps each of them.
func (dp *DescriptorPool) AllocateDescriptorSets(mtSafety MTSafety, layouts ...*DescriptorSetLayout) ([]*DescriptorSet, error) {
	handles, err := dp.allocateHandles(layouts)
	if err != nil {
		return nil, err
	}

	sets := make([]*DescriptorSet, 0, len(layouts))
	for i, layout := range layouts {
		ds, err := NewDescriptorSet(dp.device, dp, layout, handles[i], mtSafety)
		if err != nil {
			for _, s := range sets {
				s.Release()
			}
			return nil, err
		}
		sets = append(sets, ds)
	}
	return sets, nil
}

func (dp *DescriptorPool) allocateHandles(layouts []*DescriptorSetLayout) ([]vk.DescriptorSet, error) {
	dp.mutex.Lock()
	released := dp.released
	dp.mutex.Unlock()
	if released {
		return nil, core.ErrReleased
	}

	vkLayouts := make([]vk.DescriptorSetLayout, len(layouts))
	for i, layout := range layouts {
		if !core.Assert(layout != nil, "nil layout at index %d", i) {
			return nil, fmt.Errorf("layout %d: %w", i, core.ErrNullHandle)
		}
		vkLayouts[i] = layout.Handle
	}

	handles, res := dp.device.Driver.AllocateDescriptorSets(dp.Handle, vkLayouts)
	if res != vk.Success {
		core.LogError("descriptor set allocation failed: %s", VulkanResultString(res, true))
		return nil, fmt.Errorf("allocate %d descriptor sets: %s: %w", len(layouts), VulkanResultString(res, false), core.ErrDriverFailure)
	}
	if len(handles) != len(layouts) {
		return nil, fmt.Errorf("driver returned %d descriptor sets for %d layouts: %w", len(handles), len(layouts), core.ErrDriverFailure)
	}
	return handles, nil
}

// Reset returns every raw set to the pool. Wrappers allocated from the pool
// become unusable but keep their cached bindings.
func (dp *DescriptorPool) Reset() error {
	dp.mutex.Lock()
	released := dp.released
	dp.mutex.Unlock()
	if released {
		return core.ErrReleased
	}

	if res := dp.device.Driver.ResetDescriptorPool(dp.Handle); res != vk.Success {
		core.LogError("descriptor pool reset failed: %s", VulkanResultString(res, true))
		return fmt.Errorf("reset descriptor pool: %s: %w", VulkanResultString(res, false), core.ErrDriverFailure)
	}
	dp.events.Fire(core.EventCodeDescriptorPoolReset, dp, core.EventContext{})
	return nil
}

// Reallocate allocates fresh raw sets for the given wrappers, which must have
// been allocated from this pool, and revives them. Their cached bindings are
// written in full on the next bake.
func (dp *DescriptorPool) Reallocate(sets ...*DescriptorSet) error {
	layouts := make([]*DescriptorSetLayout, len(sets))
	for i, ds := range sets {
		if !core.Assert(ds != nil && ds.Pool() == dp, "descriptor set %d was not allocated from this pool", i) {
			return fmt.Errorf("descriptor set %d: %w", i, core.ErrReleased)
		}
		layouts[i] = ds.Layout()
	}

	handles, err := dp.allocateHandles(layouts)
	if err != nil {
		return err
	}
	for i, ds := range sets {
		if err := ds.SetNewVkHandle(handles[i]); err != nil {
			return err
		}
	}
	return nil
}

func (dp *DescriptorPool) Sets() []*DescriptorSet {
	dp.mutex.Lock()
	defer dp.mutex.Unlock()
	return slices.Clone(dp.sets)
}

func (dp *DescriptorPool) track(ds *DescriptorSet) {
	dp.mutex.Lock()
	defer dp.mutex.Unlock()
	dp.sets = append(dp.sets, ds)
}

func (dp *DescriptorPool) forget(ds *DescriptorSet) {
	dp.mutex.Lock()
	defer dp.mutex.Unlock()
	if i := slices.Index(dp.sets, ds); i >= 0 {
		dp.sets = slices.Delete(dp.sets, i, i+1)
	}
}

// Release drops the pool's references. Sets still allocated from it become
// unusable for good, since their raw handles go away with the pool.
func (dp *DescriptorPool) Release() {
	dp.mutex.Lock()
	if dp.released {
		dp.mutex.Unlock()
		return
	}
	dp.released = true
	dp.sets = nil
	dp.mutex.Unlock()

	dp.events.Fire(core.EventCodeObjectReleased, dp, core.EventContext{})
}
