package vulkan

import (
	"sync"
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// recordingDriver stands in for the device: it hands out fake handles and
// keeps every update batch it receives.
type recordingDriver struct {
	mu sync.Mutex

	updates      [][]vk.WriteDescriptorSet
	updateResult vk.Result
	allocResult  vk.Result
	resetResult  vk.Result
	allocations  int
	resets       int
}

func (d *recordingDriver) AllocateDescriptorSets(pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.allocResult != vk.Success {
		return nil, d.allocResult
	}
	d.allocations += len(layouts)
	sets := make([]vk.DescriptorSet, len(layouts))
	for i := range sets {
		sets[i] = fakeDescriptorSet()
	}
	return sets, vk.Success
}

func (d *recordingDriver) UpdateDescriptorSets(writes []vk.WriteDescriptorSet) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.updateResult != vk.Success {
		return d.updateResult
	}
	d.updates = append(d.updates, writes)
	return vk.Success
}

func (d *recordingDriver) ResetDescriptorPool(pool vk.DescriptorPool) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resetResult != vk.Success {
		return d.resetResult
	}
	d.resets++
	return vk.Success
}

func (d *recordingDriver) updateCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.updates)
}

func (d *recordingDriver) lastUpdate(t *testing.T) []vk.WriteDescriptorSet {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.updates) == 0 {
		t.Fatal("expected at least one UpdateDescriptorSets call")
	}
	return d.updates[len(d.updates)-1]
}

// Distinct non-nil handles. Nothing is ever passed to a real driver.
func fakeDescriptorSet() vk.DescriptorSet { return vk.DescriptorSet(unsafe.Pointer(new(uint64))) }
func fakeBuffer() vk.Buffer               { return vk.Buffer(unsafe.Pointer(new(uint64))) }
func fakeBufferView() vk.BufferView       { return vk.BufferView(unsafe.Pointer(new(uint64))) }
func fakeImageView() vk.ImageView         { return vk.ImageView(unsafe.Pointer(new(uint64))) }
func fakeSampler() vk.Sampler             { return vk.Sampler(unsafe.Pointer(new(uint64))) }

func newTestBuffer(size vk.DeviceSize) *Buffer { return &Buffer{Handle: fakeBuffer(), Size: size} }
func newTestBufferView() *BufferView           { return &BufferView{Handle: fakeBufferView()} }
func newTestImageView() *ImageView             { return &ImageView{Handle: fakeImageView()} }
func newTestSampler() *Sampler                 { return &Sampler{Handle: fakeSampler()} }

type fixture struct {
	driver *recordingDriver
	device *VulkanDevice
	pool   *DescriptorPool
	layout *DescriptorSetLayout
	set    *DescriptorSet
}

func newFixture(t *testing.T, bindings ...DescriptorSetLayoutBinding) *fixture {
	t.Helper()
	driver := &recordingDriver{}
	device := &VulkanDevice{Driver: driver}
	device.CoalesceWrites.Store(true)

	pool, err := NewDescriptorPool(device, nil)
	if err != nil {
		t.Fatalf("NewDescriptorPool: %v", err)
	}
	layout, err := NewDescriptorSetLayout(nil, bindings...)
	if err != nil {
		t.Fatalf("NewDescriptorSetLayout: %v", err)
	}
	sets, err := pool.AllocateDescriptorSets(MTSafetyInheritFromParentDevice, layout)
	if err != nil {
		t.Fatalf("AllocateDescriptorSets: %v", err)
	}
	return &fixture{driver: driver, device: device, pool: pool, layout: layout, set: sets[0]}
}

func binding(n uint32, t vk.DescriptorType, count uint32) DescriptorSetLayoutBinding {
	return DescriptorSetLayoutBinding{
		Binding:         n,
		DescriptorType:  t,
		DescriptorCount: count,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}
}

// coveredIndices expands the writes for binding into the array elements they touch,
// failing on any element written twice.
func coveredIndices(t *testing.T, writes []vk.WriteDescriptorSet, binding uint32) map[uint32]bool {
	t.Helper()
	covered := map[uint32]bool{}
	for _, w := range writes {
		if w.DstBinding != binding {
			continue
		}
		for i := w.DstArrayElement; i < w.DstArrayElement+w.DescriptorCount; i++ {
			if covered[i] {
				t.Fatalf("binding %d element %d written twice", binding, i)
			}
			covered[i] = true
		}
	}
	return covered
}
