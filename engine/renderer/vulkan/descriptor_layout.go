package vulkan

import (
	"fmt"
	"slices"
	"sync"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindcache/engine/core"
)

/**
 * @brief A single binding declared by a descriptor set layout.
 */
type DescriptorSetLayoutBinding struct {
	/** @brief The binding index as referenced by shaders. */
	Binding uint32
	/** @brief The descriptor type every array element of the binding holds. */
	DescriptorType vk.DescriptorType
	/** @brief The array size of the binding. */
	DescriptorCount uint32
	/** @brief Shader stages the binding is visible to. */
	StageFlags vk.ShaderStageFlags
	/** @brief Immutable samplers, one per array element. Empty when samplers are bound per set. */
	ImmutableSamplers []*Sampler
}

func (b DescriptorSetLayoutBinding) hasImmutableSamplers() bool {
	return len(b.ImmutableSamplers) > 0
}

func (b DescriptorSetLayoutBinding) validate() error {
	if b.DescriptorCount == 0 {
		return fmt.Errorf("binding %d declares an empty array", b.Binding)
	}
	if classOf(b.DescriptorType) == descriptorClassUnknown {
		return fmt.Errorf("binding %d: unsupported descriptor type %d", b.Binding, b.DescriptorType)
	}
	if b.hasImmutableSamplers() {
		if b.DescriptorType != vk.DescriptorTypeSampler && b.DescriptorType != vk.DescriptorTypeCombinedImageSampler {
			return fmt.Errorf("binding %d: immutable samplers on a non-sampler binding", b.Binding)
		}
		if uint32(len(b.ImmutableSamplers)) != b.DescriptorCount {
			return fmt.Errorf("binding %d: %d immutable samplers for %d array elements", b.Binding, len(b.ImmutableSamplers), b.DescriptorCount)
		}
	}
	return nil
}

// DescriptorSetLayout describes the bindings of the descriptor sets
// allocated with it. Adjusting the binding list notifies every set created
// for the layout so it can re-shape its cached bindings.
type DescriptorSetLayout struct {
	Handle vk.DescriptorSetLayout

	mutex    sync.RWMutex
	bindings []DescriptorSetLayoutBinding
	events   *core.EventBus
}

func NewDescriptorSetLayout(handle vk.DescriptorSetLayout, bindings ...DescriptorSetLayoutBinding) (*DescriptorSetLayout, error) {
	dsl := &DescriptorSetLayout{
		Handle: handle,
		events: core.NewEventBus(),
	}
	for _, b := range bindings {
		if err := b.validate(); err != nil {
			return nil, err
		}
		if _, exists := dsl.find(b.Binding); exists {
			return nil, fmt.Errorf("binding %d declared twice", b.Binding)
		}
		dsl.bindings = append(dsl.bindings, b)
	}
	dsl.sort()
	return dsl, nil
}

func (dsl *DescriptorSetLayout) sort() {
	slices.SortFunc(dsl.bindings, func(a, b DescriptorSetLayoutBinding) int {
		return int(a.Binding) - int(b.Binding)
	})
}

func (dsl *DescriptorSetLayout) find(binding uint32) (int, bool) {
	for i := range dsl.bindings {
		if dsl.bindings[i].Binding == binding {
			return i, true
		}
	}
	return -1, false
}

// Bindings returns a copy of the binding list, ordered by binding index.
func (dsl *DescriptorSetLayout) Bindings() []DescriptorSetLayoutBinding {
	dsl.mutex.RLock()
	defer dsl.mutex.RUnlock()
	return slices.Clone(dsl.bindings)
}

func (dsl *DescriptorSetLayout) Binding(binding uint32) (DescriptorSetLayoutBinding, bool) {
	dsl.mutex.RLock()
	defer dsl.mutex.RUnlock()
	i, ok := dsl.find(binding)
	if !ok {
		return DescriptorSetLayoutBinding{}, false
	}
	return dsl.bindings[i], true
}

// AddBinding declares a new binding, or replaces the binding with the same
// index, and notifies dependent descriptor sets.
func (dsl *DescriptorSetLayout) AddBinding(b DescriptorSetLayoutBinding) error {
	if err := b.validate(); err != nil {
		return err
	}
	dsl.mutex.Lock()
	if i, ok := dsl.find(b.Binding); ok {
		dsl.bindings[i] = b
	} else {
		dsl.bindings = append(dsl.bindings, b)
		dsl.sort()
	}
	count := len(dsl.bindings)
	dsl.mutex.Unlock()

	dsl.fireAdjusted(count)
	return nil
}

func (dsl *DescriptorSetLayout) RemoveBinding(binding uint32) error {
	dsl.mutex.Lock()
	i, ok := dsl.find(binding)
	if !ok {
		dsl.mutex.Unlock()
		return fmt.Errorf("binding %d: %w", binding, core.ErrBindingOutOfRange)
	}
	dsl.bindings = slices.Delete(dsl.bindings, i, i+1)
	count := len(dsl.bindings)
	dsl.mutex.Unlock()

	dsl.fireAdjusted(count)
	return nil
}

func (dsl *DescriptorSetLayout) fireAdjusted(bindingCount int) {
	var ctx core.EventContext
	ctx.Data.U32[0] = uint32(bindingCount)
	dsl.events.Fire(core.EventCodeDescriptorSetLayoutAdjusted, dsl, ctx)
}

// VkBindings converts the binding list into the form consumed by
// vkCreateDescriptorSetLayout.
func (dsl *DescriptorSetLayout) VkBindings() []vk.DescriptorSetLayoutBinding {
	dsl.mutex.RLock()
	defer dsl.mutex.RUnlock()

	out := make([]vk.DescriptorSetLayoutBinding, len(dsl.bindings))
	for i, b := range dsl.bindings {
		out[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  b.DescriptorType,
			DescriptorCount: b.DescriptorCount,
			StageFlags:      b.StageFlags,
		}
		if b.hasImmutableSamplers() {
			samplers := make([]vk.Sampler, len(b.ImmutableSamplers))
			for j, s := range b.ImmutableSamplers {
				samplers[j] = s.handle()
			}
			out[i].PImmutableSamplers = samplers
		}
	}
	return out
}
