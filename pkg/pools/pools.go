// Package pools provides object pooling for reducing GC pressure during
// recalculation.
//
//   - SlicePool: size-class based pooling for slices (score buffers)
//   - SetPool: pooling for membership sets (propagation queues)
package pools
