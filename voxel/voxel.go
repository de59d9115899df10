package voxel

import "github.com/achilleasa/vxgi/types"

// Tag is the recency marker stored in the top byte of each voxel.
// 0 marks an empty cell, 1..100 are round-robin tags derived from the
// scheduler timestamp and BaselineTag marks warm-up writes.
type Tag uint8

const (
	EmptyTag    Tag = 0
	BaselineTag Tag = 255

	// Number of distinct timestamp values.
	TimestampRange = 100
)

// Return the round-robin tag for a scheduler timestamp in [0, 100).
func RoundTag(timestamp int) Tag {
	return Tag(timestamp%TimestampRange + 1)
}

// Returns true for tags written during warm-up.
func (t Tag) Baseline() bool {
	return t == BaselineTag
}

// Number of timestamp rounds that passed between this tag and current.
// Baseline tags never age.
func (t Tag) Age(current Tag) int {
	if t.Baseline() || current.Baseline() || t == EmptyTag {
		return 0
	}
	return (int(current) - int(t) + TimestampRange) % TimestampRange
}

// Voxel packs an RGB8 color in bits 0..23 and a Tag in bits 24..31.
type Voxel uint32

// Pack a linear color (clamped to [0, 1]) and a tag into a voxel.
func Pack(color types.Vec3, tag Tag) Voxel {
	r := uint32(types.Clamp(color[0], 0, 1)*255 + 0.5)
	g := uint32(types.Clamp(color[1], 0, 1)*255 + 0.5)
	b := uint32(types.Clamp(color[2], 0, 1)*255 + 0.5)
	return Voxel(r | g<<8 | b<<16 | uint32(tag)<<24)
}

// Returns true if no sample was ever written to the cell.
func (v Voxel) Empty() bool {
	return v.Tag() == EmptyTag
}

func (v Voxel) Tag() Tag {
	return Tag(v >> 24)
}

func (v Voxel) RGB() (r, g, b uint8) {
	return uint8(v), uint8(v >> 8), uint8(v >> 16)
}

// Return the color as a linear float vector.
func (v Voxel) Color() types.Vec3 {
	r, g, b := v.RGB()
	return types.XYZ(float32(r)/255, float32(g)/255, float32(b)/255)
}

// Blend an incoming sample into an existing cell:
//
//   - an empty cell takes the sample;
//   - samples with the same tag keep the per-channel maximum so repeated
//     writes of the same data leave the cell unchanged;
//   - baseline contents win over round-robin samples;
//   - otherwise the fresher sample replaces the cell.
func Blend(existing, incoming Voxel) Voxel {
	if incoming.Empty() {
		return existing
	}
	if existing.Empty() {
		return incoming
	}

	et, it := existing.Tag(), incoming.Tag()
	switch {
	case et == it:
		return maxChannels(existing, incoming)
	case et.Baseline():
		return existing
	}
	return incoming
}

func maxChannels(a, b Voxel) Voxel {
	out := a & 0xff000000
	for shift := uint(0); shift < 24; shift += 8 {
		ca := (a >> shift) & 0xff
		cb := (b >> shift) & 0xff
		if cb > ca {
			ca = cb
		}
		out |= ca << shift
	}
	return out
}
