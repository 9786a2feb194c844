// Package layout computes flattened instance layouts for registered types.
//
// An instance of a type with ancestry [A, B] is one contiguous block holding
// A's flattened block, then B's flattened block, then the type's own
// sub-block. Every sub-block is a fixed-size header followed by that level's
// declared payload.
//
// # Layout Rules
//
//   - Size(T) = sum over the full ancestry plus T of (header + payload)
//   - Ancestors are placed in declaration order, each recursively flattened
//   - A diamond ancestor appears once per path that reaches it
//   - Slot order is construction order (bases first)
//   - Teardown order is self first, then ancestors last-declared first
//
// # Usage
//
//	c := layout.NewCalculator(headerSize)
//	info, ok := c.Calculate(node, lookup)
//	// info.Size, info.Slots, info.Index, info.Teardown available
//
// Results are cached per handle, so lookups on hot paths are map reads.
// This package is internal to types.
package layout
