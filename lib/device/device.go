/*package device stores the kernel-launch limits of an accelerator and tiles
site counts into launch geometries that respect them. It only holds
parameters; actual device discovery and kernel dispatch live outside this
module.
*/
package device

import (
	"fmt"
)

// DefaultBlockSize is the number of sites per block when the caller does not
// request one.
const DefaultBlockSize = 128

// Params holds the launch limits of one device. Populate it with
// SetComputeCapability before asking for launch geometries.
type Params struct {
	syncDevice   bool
	maxKernelArg int

	smem        int
	smemDefault int

	maxGridX, maxGridY, maxGridZ    int
	maxBlockX, maxBlockY, maxBlockZ int
}

// NewParams returns device parameters with the launch limits of a device
// with the given compute capability (major*10 + minor).
func NewParams(computeCapability int) *Params {
	p := &Params{maxKernelArg: 512}
	p.SetComputeCapability(computeCapability)
	return p
}

// SetComputeCapability fills in the launch limits for a device generation.
func (p *Params) SetComputeCapability(sm int) {
	p.maxGridY, p.maxGridZ = 65535, 65535
	p.maxBlockX, p.maxBlockY, p.maxBlockZ = 1024, 1024, 64
	p.smem = 48 * 1024
	p.smemDefault = 0

	if sm >= 30 {
		p.maxGridX = (1 << 31) - 1
	} else {
		p.maxGridX = 65535
	}
}

// MaxGridX returns the grid size limit along x.
func (p *Params) MaxGridX() int { return p.maxGridX }

// MaxGridY returns the grid size limit along y.
func (p *Params) MaxGridY() int { return p.maxGridY }

// MaxGridZ returns the grid size limit along z.
func (p *Params) MaxGridZ() int { return p.maxGridZ }

// MaxBlockX returns the block size limit along x.
func (p *Params) MaxBlockX() int { return p.maxBlockX }

// MaxBlockY returns the block size limit along y.
func (p *Params) MaxBlockY() int { return p.maxBlockY }

// MaxBlockZ returns the block size limit along z.
func (p *Params) MaxBlockZ() int { return p.maxBlockZ }

// MaxSMem returns the shared memory limit in bytes.
func (p *Params) MaxSMem() int { return p.smem }

// DefaultSMem returns the default shared memory request in bytes.
func (p *Params) DefaultSMem() int { return p.smemDefault }

// MaxKernelArg returns the kernel argument buffer limit in bytes.
func (p *Params) MaxKernelArg() int { return p.maxKernelArg }

// SyncDevice returns whether kernels synchronize the device after launch.
func (p *Params) SyncDevice() bool { return p.syncDevice }

// SetSyncDevice sets whether kernels synchronize the device after launch.
func (p *Params) SetSyncDevice(sync bool) { p.syncDevice = sync }

// Launch is a kernel launch geometry covering a number of lattice sites.
// GridX*GridY*BlockX >= Sites, with each value within the device limits.
type Launch struct {
	Sites  int
	GridX  int
	GridY  int
	BlockX int
}

// LaunchGeometry tiles sites threads into blocks of blockSize (or
// DefaultBlockSize if blockSize <= 0), spilling into the y grid dimension
// when the block count exceeds the x grid limit.
func (p *Params) LaunchGeometry(sites, blockSize int) (Launch, error) {
	if sites <= 0 {
		return Launch{}, fmt.Errorf("A kernel launch needs at least one "+
			"site, got %d.", sites)
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if blockSize > p.maxBlockX {
		return Launch{}, fmt.Errorf("The block size %d exceeds the device "+
			"limit of %d threads.", blockSize, p.maxBlockX)
	}

	blocks := (sites + blockSize - 1) / blockSize
	gridX, gridY := blocks, 1
	if gridX > p.maxGridX {
		gridY = (blocks + p.maxGridX - 1) / p.maxGridX
		gridX = (blocks + gridY - 1) / gridY
	}
	if gridY > p.maxGridY {
		return Launch{}, fmt.Errorf("%d sites cannot be tiled within the "+
			"device's grid limits.", sites)
	}

	return Launch{Sites: sites, GridX: gridX, GridY: gridY,
		BlockX: blockSize}, nil
}
